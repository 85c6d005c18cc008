package player

import (
	"testing"
	"time"

	"github.com/fhs/gompd/v2/mpd"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		name   string
		status mpd.Attrs
		song   mpd.Attrs
		want   State
	}{
		{
			name: "playing",
			status: mpd.Attrs{
				"state": "play", "volume": "80", "repeat": "1", "random": "0",
				"elapsed": "12.5", "duration": "200.123", "song": "3", "playlistlength": "15",
			},
			song: mpd.Attrs{"Title": "So What", "Artist": "Miles Davis", "Album": "Kind of Blue", "file": "miles/01.flac"},
			want: State{
				Playing: true, Volume: 80, Repeat: true,
				Elapsed: 12500 * time.Millisecond, Duration: 200123 * time.Millisecond,
				Pos: 3, QueueLen: 15,
				Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue", File: "miles/01.flac",
			},
		},
		{
			name:   "stopped",
			status: mpd.Attrs{"state": "stop", "volume": "100", "playlistlength": "0"},
			song:   mpd.Attrs{},
			want:   State{Volume: 100},
		},
		{
			name:   "untagged file falls back to base name",
			status: mpd.Attrs{"state": "pause"},
			song:   mpd.Attrs{"file": "mix/deep cut.mp3"},
			want:   State{Paused: true, Title: "deep cut.mp3", File: "mix/deep cut.mp3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseState(tt.status, tt.song)
			if got != tt.want {
				t.Fatalf("parseState()=%+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseQueue(t *testing.T) {
	attrs := []mpd.Attrs{
		{"Pos": "0", "Id": "7", "Title": "Blue in Green", "Artist": "Miles Davis", "file": "miles/03.flac", "duration": "337.2"},
		{"Pos": "1", "Id": "8", "file": "mix/bootleg.mp3", "Time": "95"},
	}
	items := parseQueue(attrs)
	if len(items) != 2 {
		t.Fatalf("parseQueue returned %d items, want 2", len(items))
	}
	if items[0].Duration != 337200*time.Millisecond {
		t.Fatalf("items[0].Duration=%v, want 337.2s", items[0].Duration)
	}
	if items[1].Title != "bootleg.mp3" {
		t.Fatalf("items[1].Title=%q, want base name fallback", items[1].Title)
	}
	if items[1].Duration != 95*time.Second {
		t.Fatalf("items[1].Duration=%v, want Time fallback of 95s", items[1].Duration)
	}
}

func TestParseQueueEmpty(t *testing.T) {
	if items := parseQueue(nil); len(items) != 0 {
		t.Fatalf("parseQueue(nil) returned %d items, want 0", len(items))
	}
}
