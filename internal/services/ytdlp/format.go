package ytdlp

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"clipper/internal/cut"
)

// FormatSelection is the yt-dlp format request for a download.
type FormatSelection struct {
	Selector    string
	MergeFormat string
}

// SelectFormat builds the yt-dlp format selector for the negotiated height.
// FastCopy runs pin H.264 video in an MP4 container with AAC audio so the
// result can be stream-copied; Reencode runs take the best streams at the
// height and let ffmpeg re-encode whatever arrives.
func SelectFormat(height int, strategy cut.Strategy) FormatSelection {
	if strategy == cut.Reencode {
		return FormatSelection{
			Selector: fmt.Sprintf("bv*[height=%d]+ba/b[height=%d]", height, height),
		}
	}
	return FormatSelection{
		Selector: fmt.Sprintf(
			"bv*[vcodec^=avc1][ext=mp4][height=%d]+ba[acodec^=mp4a]/b[ext=mp4][height=%d]",
			height, height,
		),
		MergeFormat: "mp4",
	}
}

type probePayload struct {
	Formats []struct {
		Height int    `json:"height"`
		VCodec string `json:"vcodec"`
		Ext    string `json:"ext"`
	} `json:"formats"`
}

func parseProbeOutput(raw []byte) (ProbeResult, error) {
	payload, err := decodeProbeJSON(raw)
	if err != nil {
		return ProbeResult{}, err
	}

	h264 := make(map[int]struct{})
	all := make(map[int]struct{})
	for _, format := range payload.Formats {
		if format.Height == 0 || format.VCodec == "" || format.VCodec == "none" {
			continue
		}
		all[format.Height] = struct{}{}
		if format.Ext != "mp4" || !strings.HasPrefix(format.VCodec, "avc1") {
			continue
		}
		h264[format.Height] = struct{}{}
	}
	return ProbeResult{H264MP4: sortedHeights(h264), All: sortedHeights(all)}, nil
}

// decodeProbeJSON tolerates non-JSON noise around the -J payload: the
// executor merges stdout and stderr, so the JSON document is located by its
// opening brace.
func decodeProbeJSON(raw []byte) (probePayload, error) {
	var payload probePayload
	if err := json.Unmarshal(raw, &payload); err == nil {
		return payload, nil
	}
	for _, line := range strings.Split(string(raw), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "{") {
			continue
		}
		if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
			return payload, nil
		}
	}
	return probePayload{}, errors.New("no JSON document in yt-dlp output")
}

func sortedHeights(set map[int]struct{}) []int {
	heights := make([]int, 0, len(set))
	for h := range set {
		heights = append(heights, h)
	}
	sort.Ints(heights)
	return heights
}
