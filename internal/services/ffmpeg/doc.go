// Package ffmpeg wraps the ffmpeg CLI for bounded clip extraction.
//
// The Client implements the Cutter interface with the two strategy arg
// shapes: pre-input seek with stream copy for FastCopy, input-relative seek
// with H.264/AAC re-encoding for Reencode. Output lands on a .part sibling
// and is renamed into place only on success.
package ffmpeg
