package ssr

// SetSampleHook installs fn as an observer of every UV the kernel samples
// while marching.
func SetSampleHook(k *Kernel, fn func(uv Vec2)) {
	k.onSample = fn
}
