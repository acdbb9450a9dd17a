package realtime

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

// GoogleSpeechStreamer opens Google Cloud streaming recognition sessions
// configured for the browser capture format: 16kHz mono LINEAR16.
type GoogleSpeechStreamer struct {
	client   *speech.Client
	language string
}

// NewGoogleSpeechStreamer creates a streamer using application default
// credentials
func NewGoogleSpeechStreamer(ctx context.Context, language string) (*GoogleSpeechStreamer, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	if language == "" {
		language = "en-US"
	}

	return &GoogleSpeechStreamer{client: client, language: language}, nil
}

// Start opens one recognition stream and sends the config frame.
func (g *GoogleSpeechStreamer) Start(ctx context.Context) (RecognitionStream, error) {
	stream, err := g.client.StreamingRecognize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open recognition stream: %w", err)
	}

	configReq := &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:                   speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz:            16000,
					LanguageCode:               g.language,
					Model:                      "chirp",
					EnableAutomaticPunctuation: true,
				},
				InterimResults: false,
			},
		},
	}
	if err := stream.Send(configReq); err != nil {
		return nil, fmt.Errorf("failed to send recognition config: %w", err)
	}

	rs := &googleRecognitionStream{
		stream:  stream,
		results: make(chan string),
	}
	go rs.receive()

	return rs, nil
}

// Close releases the underlying client
func (g *GoogleSpeechStreamer) Close() error {
	return g.client.Close()
}

type googleRecognitionStream struct {
	stream  speechpb.Speech_StreamingRecognizeClient
	results chan string

	mu     sync.Mutex
	closed bool
}

// Send pushes one audio chunk.
func (s *googleRecognitionStream) Send(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	return s.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
}

func (s *googleRecognitionStream) Results() <-chan string {
	return s.results
}

// Close half-closes the send side; the receive loop drains and exits.
func (s *googleRecognitionStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	return s.stream.CloseSend()
}

// receive pumps finalized transcripts into the results channel until the
// stream ends.
func (s *googleRecognitionStream) receive() {
	defer close(s.results)

	for {
		resp, err := s.stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Printf("[STT] Recognition stream error: %v", err)
			return
		}

		for _, result := range resp.Results {
			if len(result.Alternatives) == 0 {
				continue
			}
			transcript := strings.TrimSpace(result.Alternatives[0].Transcript)
			if transcript != "" {
				s.results <- transcript
			}
		}
	}
}

// GoogleSynthesizer renders replies as MP3 via Google Cloud Text-to-Speech.
type GoogleSynthesizer struct {
	client   *texttospeech.Client
	voice    string
	language string
}

// NewGoogleSynthesizer creates a synthesizer using application default
// credentials
func NewGoogleSynthesizer(ctx context.Context, voice, language string) (*GoogleSynthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS client: %w", err)
	}

	if voice == "" {
		voice = "en-US-Studio-M"
	}
	if language == "" {
		language = "en-US"
	}

	return &GoogleSynthesizer{client: client, voice: voice, language: language}, nil
}

// Synthesize renders the text with a trailing pause so playback doesn't cut
// off the last word.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ssml := fmt.Sprintf(`<speak>%s<break time="400ms"/></speak>`, html.EscapeString(text))

	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Ssml{Ssml: ssml},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: g.language,
			Name:         g.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	return resp.AudioContent, nil
}

// Close releases the underlying client
func (g *GoogleSynthesizer) Close() error {
	return g.client.Close()
}
