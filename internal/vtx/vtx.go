// Package vtx models the 5.8 GHz video-transmitter channel grid used by the
// tracker's receiver module.
package vtx

import "fmt"

// Band is one of the six standard 5.8 GHz FPV bands.
type Band string

const (
	BandA Band = "A"
	BandB Band = "B"
	BandE Band = "E"
	BandF Band = "F"
	BandR Band = "R"
	BandL Band = "L"
)

// Bands lists all bands in receiver table order.
var Bands = []Band{BandA, BandB, BandE, BandF, BandR, BandL}

const ChannelCount = 8

// frequencyTable maps band -> channel-1 -> frequency in MHz. Matches the
// receiver firmware table; frequencies are never stored independently.
var frequencyTable = map[Band][ChannelCount]int{
	BandA: {5865, 5845, 5825, 5805, 5785, 5765, 5745, 5725},
	BandB: {5733, 5752, 5771, 5790, 5809, 5828, 5847, 5866},
	BandE: {5705, 5685, 5665, 5645, 5885, 5905, 5925, 5945},
	BandF: {5740, 5760, 5780, 5800, 5820, 5840, 5860, 5880},
	BandR: {5658, 5695, 5732, 5769, 5806, 5843, 5880, 5917},
	BandL: {5362, 5399, 5436, 5473, 5510, 5547, 5584, 5621},
}

// Setting is a validated band/channel pair. FrequencyMHz is derived from the
// table, never assigned.
type Setting struct {
	Band    Band
	Channel int // 1..8
}

// New validates the band/channel pair and returns the setting.
func New(band Band, channel int) (Setting, error) {
	if _, ok := frequencyTable[band]; !ok {
		return Setting{}, fmt.Errorf("invalid band %q", band)
	}
	if channel < 1 || channel > ChannelCount {
		return Setting{}, fmt.Errorf("channel %d out of range 1..%d", channel, ChannelCount)
	}
	return Setting{Band: band, Channel: channel}, nil
}

// FrequencyMHz returns the table frequency for the setting, or 0 when the
// setting is invalid.
func (s Setting) FrequencyMHz() int {
	row, ok := frequencyTable[s.Band]
	if !ok || s.Channel < 1 || s.Channel > ChannelCount {
		return 0
	}
	return row[s.Channel-1]
}

func (s Setting) String() string {
	return fmt.Sprintf("%s%d %dMHz", s.Band, s.Channel, s.FrequencyMHz())
}
