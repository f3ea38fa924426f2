// Package frame samples a single still image from the wallpaper video for
// use as a static fallback. Generation shells out to ffmpeg; a failure is
// reported to the caller and never stops the daemon.
package frame

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGenerationFailed wraps any ffmpeg failure.
var ErrGenerationFailed = errors.New("frame generation failed")

// Offset into the video the frame is sampled at, in seconds.
const sampleOffset = 1

// Maximum dimensions of the generated frame. The source is aspect-filled
// and center-cropped, matching how live playback covers a display.
const (
	maxWidth  = 1920
	maxHeight = 1080
)

// BuildArgs returns the ffmpeg invocation for sampling videoPath into
// outputPath.
func BuildArgs(videoPath, outputPath string) []string {
	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
		maxWidth, maxHeight, maxWidth, maxHeight)

	return []string{
		"-hide_banner", "-loglevel", "error",
		"-y",
		"-ss", fmt.Sprintf("%d", sampleOffset),
		"-i", videoPath,
		"-frames:v", "1",
		"-vf", filter,
		outputPath,
	}
}

// Generate writes a still frame of videoPath to outputPath.
func Generate(videoPath, outputPath string) error {
	cmd := exec.Command("ffmpeg", BuildArgs(videoPath, outputPath)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrGenerationFailed, msg)
	}
	return nil
}
