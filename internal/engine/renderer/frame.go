package renderer

// FrameContext carries the per-frame state that is threaded through the
// render loop instead of living in globals, so multiple windows or
// contexts can each own their own.
type FrameContext struct {
	DeltaTime  float32 // seconds since the previous frame
	Elapsed    float64 // seconds since the renderer was created
	FrameIndex uint64
}

// Advance moves the context to the next frame.
func (f *FrameContext) Advance(dt float32) {
	f.DeltaTime = dt
	f.Elapsed += float64(dt)
	f.FrameIndex++
}
