// Package ytdlp wraps the yt-dlp CLI for probing a remote video's available
// qualities and downloading the source at a negotiated format.
//
// The Client satisfies the Prober and Downloader interfaces consumed by the
// acquisition layer; the Executor seam lets tests run without the binary.
// Tool failures are classified into the shared acquisition taxonomy
// (not found, unavailable, network, timeout) from yt-dlp's output text.
package ytdlp
