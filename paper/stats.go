package paper

import (
	"encoding/json"
	"math"

	"github.com/juruen/inkpaper/ink"
)

const (
	UnitByte  = "BYTE"
	UnitBytes = "BYTES"
	UnitKiB   = "KiB"
	UnitMiB   = "MiB"

	// below this the size is reported as zero
	minReportedSize = 270
)

// Stats estimates what the ink buffer weighs once sent
type Stats struct {
	StrokesCount int     `json:"strokesCount"`
	PointsCount  int     `json:"pointsCount"`
	ByteSize     int     `json:"byteSize"`
	HumanSize    float64 `json:"humanSize"`
	HumanUnit    string  `json:"humanUnit"`
}

func computeStats(strokes []*ink.Stroke) Stats {
	stats := Stats{HumanUnit: UnitByte}
	if len(strokes) == 0 {
		return stats
	}

	stats.StrokesCount = len(strokes)
	for _, s := range strokes {
		stats.PointsCount += s.Len()
	}

	b, err := json.Marshal(strokes)
	if err != nil {
		return stats
	}
	stats.ByteSize, stats.HumanSize, stats.HumanUnit = humanSize(len(b))
	return stats
}

func humanSize(size int) (int, float64, string) {
	switch {
	case size < minReportedSize:
		return 0, 0, UnitByte
	case size < 2048:
		return size, float64(size), UnitBytes
	case size < 1024*1024:
		return size, round2(float64(size) / 1024), UnitKiB
	}
	return size, round2(float64(size) / 1024 / 1024), UnitMiB
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
