package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"syscall"
)

// InitResourceLimits raises the open-file limit. Preloading opens every frame
// of a sequence at once, which trips the default limit on macOS.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not read open-file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not raise open-file limit: %v", err)
	} else {
		fmt.Printf("[*] Open-file limit raised to %d\n", rLimit.Cur)
	}
}

var framePattern = regexp.MustCompile(`^(.*?)(\d{3})\.jpg$`)

// DetectSequence finds the numbered frame sequence in dir and returns its base
// path and frame count. When several prefixes are present the largest
// sequence wins. Gaps in the numbering are an error: the loader requires
// indices 1..N with nothing missing.
func DetectSequence(dir string) (string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", 0, err
	}

	groups := map[string][]int{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := framePattern.FindStringSubmatch(strings.ToLower(e.Name()))
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[2])
		prefix := e.Name()[:len(m[1])]
		groups[prefix] = append(groups[prefix], n)
	}

	if len(groups) == 0 {
		return "", 0, fmt.Errorf("no frame sequence found in %s", dir)
	}

	var best string
	for prefix, nums := range groups {
		if best == "" || len(nums) > len(groups[best]) || (len(nums) == len(groups[best]) && prefix < best) {
			best = prefix
		}
	}

	nums := groups[best]
	sort.Ints(nums)
	for i, n := range nums {
		if n != i+1 {
			return "", 0, fmt.Errorf("sequence %s in %s: frame %03d missing", best, dir, i+1)
		}
	}

	return filepath.Join(dir, best), len(nums), nil
}

// GetAudioDuration returns the length of an audio file in seconds via ffprobe.
func GetAudioDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, err
	}

	var duration float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration)
	if err != nil {
		return 0, err
	}

	return duration, nil
}

// GetBestH264Encoder returns the fastest H.264 encoder ffmpeg offers here.
// Hardware encoders are preferred: VideoToolbox on macOS, then NVENC, then
// software libx264.
func GetBestH264Encoder() string {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), name) {
			return name
		}
	}
	return "libx264"
}

// DefaultQuality maps an encoder to a sane quality value: bitrate units of
// 100 kbit/s for VideoToolbox, CQ for NVENC, CRF for x264.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}
