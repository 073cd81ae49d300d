package google

import (
	"testing"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LanguageCode != "en-US" {
		t.Errorf("expected default language 'en-US', got %s", cfg.LanguageCode)
	}
	if cfg.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.SampleRateHz)
	}
	if cfg.AudioEncoding != "LINEAR16" {
		t.Errorf("expected default encoding 'LINEAR16', got %s", cfg.AudioEncoding)
	}
}

func TestParseAudioEncoding(t *testing.T) {
	tests := []struct {
		input    string
		expected speechpb.RecognitionConfig_AudioEncoding
	}{
		{"LINEAR16", speechpb.RecognitionConfig_LINEAR16},
		{"MULAW", speechpb.RecognitionConfig_MULAW},
		{"FLAC", speechpb.RecognitionConfig_FLAC},
		{"AMR", speechpb.RecognitionConfig_AMR},
		{"AMR_WB", speechpb.RecognitionConfig_AMR_WB},
		{"OGG_OPUS", speechpb.RecognitionConfig_OGG_OPUS},
		{"SPEEX_WITH_HEADER_BYTE", speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE},
		{"WEBM_OPUS", speechpb.RecognitionConfig_WEBM_OPUS},
		{"linear16", speechpb.RecognitionConfig_LINEAR16}, // lowercase -> fallback
		{"invalid", speechpb.RecognitionConfig_LINEAR16},  // fallback
		{"", speechpb.RecognitionConfig_LINEAR16},         // fallback
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseAudioEncoding(tt.input)
			if got != tt.expected {
				t.Errorf("parseAudioEncoding(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRequest(t *testing.T) {
	tr := &Transcriber{cfg: Config{LanguageCode: "en-GB", SampleRateHz: 8000, AudioEncoding: "MULAW"}}

	req := tr.request([]byte{1, 2}, 0)
	if req.Config.SampleRateHertz != 8000 {
		t.Errorf("expected configured sample rate 8000, got %d", req.Config.SampleRateHertz)
	}
	if req.Config.Encoding != speechpb.RecognitionConfig_MULAW {
		t.Errorf("expected MULAW, got %v", req.Config.Encoding)
	}
	if req.Config.LanguageCode != "en-GB" {
		t.Errorf("expected en-GB, got %s", req.Config.LanguageCode)
	}
	if got := req.Audio.GetContent(); len(got) != 2 {
		t.Errorf("expected 2 bytes of content, got %d", len(got))
	}

	if req := tr.request([]byte{1}, 44100); req.Config.SampleRateHertz != 44100 {
		t.Errorf("expected explicit sample rate 44100, got %d", req.Config.SampleRateHertz)
	}
}

func TestTranscript(t *testing.T) {
	resp := &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "Your father is stable. "}, {Transcript: "ignored"}}},
			{},
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "We are doing our best."}}},
		},
	}

	got := transcript(resp)
	want := "Your father is stable. We are doing our best."
	if got != want {
		t.Errorf("transcript() = %q, want %q", got, want)
	}
	if got := transcript(&speechpb.RecognizeResponse{}); got != "" {
		t.Errorf("expected empty transcript, got %q", got)
	}
}
