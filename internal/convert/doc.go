package convert

// Package convert implements local batch conversion on top of ffmpeg: route
// selection per (input, output) pair, the audio-track probe, and the encoder
// invoker with its single GPU-then-CPU fallback. Batches stop on the first
// failing item.
