// Package services hosts clients for the external tools clipper drives and
// the shared error taxonomy used to classify their failures.
//
// Subpackages wrap one binary each (yt-dlp, ffmpeg) behind small interfaces
// with injectable executors so orchestration logic is testable without the
// real tools. The sentinel errors in this package mark failures as
// run-aborting (validation, configuration, acquisition) or per-job.
package services
