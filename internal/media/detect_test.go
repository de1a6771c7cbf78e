package media

import "testing"

func TestIsSupportedExt(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".mp3", true},
		{".WAV", true},
		{".flac", true},
		{".ogg", true},
		{".m4a", false},
		{".aac", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSupportedExt(tt.ext); got != tt.want {
			t.Fatalf("IsSupportedExt(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestIsAudioFile(t *testing.T) {
	if !IsAudioFile("/music/Track 01.Mp3") {
		t.Fatal("expected mp3 path to be audio")
	}
	if IsAudioFile("/music/cover.jpg") {
		t.Fatal("expected jpg path to be rejected")
	}
}

func TestSupportedExtsListIsSorted(t *testing.T) {
	if got, want := SupportedExtsList(), ".flac, .mp3, .ogg, .wav"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
