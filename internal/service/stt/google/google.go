// Package google provides a Google Cloud Speech-to-Text transcriber.
package google

import (
	"context"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"

	"medi-response-service/internal/service/stt"
)

// Config holds Google STT configuration.
type Config struct {
	LanguageCode  string
	SampleRateHz  int
	AudioEncoding string
}

// DefaultConfig returns the default recognition settings.
func DefaultConfig() Config {
	return Config{
		LanguageCode:  "en-US",
		SampleRateHz:  16000,
		AudioEncoding: "LINEAR16",
	}
}

// Transcriber implements stt.Transcriber with batch recognition.
type Transcriber struct {
	client *speech.Client
	cfg    Config
}

// New creates a new Google STT transcriber.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, cfg Config) (*Transcriber, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Transcriber{client: c, cfg: cfg}, nil
}

// Transcribe sends one utterance and joins the best alternative of each result.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []byte, sampleRateHz int) (string, error) {
	if len(pcm) == 0 {
		return "", stt.ErrNoAudio
	}
	resp, err := t.client.Recognize(ctx, t.request(pcm, sampleRateHz))
	if err != nil {
		return "", err
	}
	return transcript(resp), nil
}

// Close releases the client connection.
func (t *Transcriber) Close() error {
	return t.client.Close()
}

func (t *Transcriber) request(pcm []byte, sampleRateHz int) *speechpb.RecognizeRequest {
	if sampleRateHz <= 0 {
		sampleRateHz = t.cfg.SampleRateHz
	}
	return &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   parseAudioEncoding(t.cfg.AudioEncoding),
			SampleRateHertz:            int32(sampleRateHz),
			LanguageCode:               t.cfg.LanguageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: pcm},
		},
	}
}

func transcript(resp *speechpb.RecognizeResponse) string {
	var parts []string
	for _, r := range resp.GetResults() {
		if len(r.Alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(r.Alternatives[0].Transcript); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func parseAudioEncoding(s string) speechpb.RecognitionConfig_AudioEncoding {
	switch s {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "AMR":
		return speechpb.RecognitionConfig_AMR
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}
