package common

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

const (
	sampleRate = 48000
	channels   = 2
	frameSize  = 960                      // 20ms at 48kHz
	frameBytes = frameSize * channels * 2 // s16le

	maxRadioRestarts = 3
)

// RadioPipeline streams a radio station URL into a Discord voice
// connection: ffmpeg decodes to PCM, gopus encodes to Opus, frames go
// out on the voice connection's OpusSend channel. A pipeline belongs to
// exactly one guild's active stream; it satisfies the registry's
// Playback interface.
type RadioPipeline struct {
	ctx       context.Context
	cancel    context.CancelFunc
	voiceConn *discordgo.VoiceConnection
	encoder   *gopus.Encoder

	mu        sync.RWMutex
	playing   bool
	ffmpegCmd *exec.Cmd

	lastFrameTime time.Time
	restartCount  int

	onEnd   func()
	endOnce sync.Once
}

// NewRadioPipeline creates a pipeline bound to an established voice
// connection.
func NewRadioPipeline(vc *discordgo.VoiceConnection) *RadioPipeline {
	ctx, cancel := context.WithCancel(context.Background())
	return &RadioPipeline{
		ctx:           ctx,
		cancel:        cancel,
		voiceConn:     vc,
		lastFrameTime: time.Now(),
	}
}

// PlayStream starts streaming streamURL. onEnd, if non-nil, fires at
// most once when the stream ends naturally; it is advisory telemetry,
// never a retry hook.
func (p *RadioPipeline) PlayStream(streamURL string, onEnd func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		return fmt.Errorf("pipeline is already playing")
	}

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("failed to create opus encoder: %v", err)
	}
	encoder.SetBitrate(128000)
	p.encoder = encoder
	p.onEnd = onEnd
	p.playing = true

	go p.streamLoop(streamURL)
	go p.watchFrameHealth()

	return nil
}

// streamLoop runs the decode-encode-send cycle, restarting on
// recoverable errors up to the restart budget.
func (p *RadioPipeline) streamLoop(streamURL string) {
	defer func() {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
	}()

	for {
		err := p.streamOnce(streamURL)
		if err == nil {
			log.Printf("Radio stream ended for %s", streamURL)
			p.fireEnd()
			return
		}

		select {
		case <-p.ctx.Done():
			return
		default:
		}

		if p.restartCount >= maxRadioRestarts {
			log.Printf("Giving up on %s after %d restarts: %v", streamURL, p.restartCount, err)
			p.fireEnd()
			return
		}
		p.restartCount++
		log.Printf("Restarting radio stream %s (attempt %d/%d): %v",
			streamURL, p.restartCount, maxRadioRestarts, err)
		time.Sleep(2 * time.Second)
	}
}

// streamOnce runs one ffmpeg session to completion. A nil return means
// the stream ended naturally.
func (p *RadioPipeline) streamOnce(streamURL string) error {
	cmd := exec.CommandContext(p.ctx, "ffmpeg",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", streamURL,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(sampleRate),
		"-ac", fmt.Sprint(channels),
		"-")

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %v", err)
	}
	go drainPipe(stderr)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %v", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %v", err)
	}

	p.mu.Lock()
	p.ffmpegCmd = cmd
	p.mu.Unlock()

	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		cmd.Wait()
	}()

	if err := p.waitForVoiceReady(); err != nil {
		return err
	}

	p.voiceConn.Speaking(true)
	defer p.voiceConn.Speaking(false)

	return p.sendPCM(stdout)
}

// sendPCM reads s16le frames from reader, Opus-encodes them, and pushes
// them to Discord. Returns nil on EOF.
func (p *RadioPipeline) sendPCM(reader io.Reader) error {
	buf := make([]byte, frameBytes)

	for {
		select {
		case <-p.ctx.Done():
			return nil
		default:
		}

		_, err := io.ReadFull(reader, buf)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading PCM data: %v", err)
		}

		samples := bytesToInt16(buf)
		opusData, err := p.encoder.Encode(samples, frameSize, frameBytes)
		if err != nil {
			log.Printf("Opus encoding error: %v", err)
			continue
		}

		select {
		case p.voiceConn.OpusSend <- opusData:
			p.mu.Lock()
			p.lastFrameTime = time.Now()
			p.mu.Unlock()
		case <-time.After(100 * time.Millisecond):
			log.Println("OpusSend channel blocked, dropping frame")
		case <-p.ctx.Done():
			return nil
		}
	}
}

// watchFrameHealth kills the session when no frames have moved for a
// while, which the stream loop then treats as a recoverable error.
func (p *RadioPipeline) watchFrameHealth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.mu.RLock()
			stalled := p.playing && time.Since(p.lastFrameTime) > 15*time.Second
			cmd := p.ffmpegCmd
			p.mu.RUnlock()

			if stalled && cmd != nil && cmd.Process != nil {
				log.Println("No frames in 15s, killing ffmpeg to force a restart")
				cmd.Process.Kill()
			}
		}
	}
}

func (p *RadioPipeline) waitForVoiceReady() error {
	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			return fmt.Errorf("timeout waiting for voice connection")
		case <-p.ctx.Done():
			return nil
		case <-ticker.C:
			if p.voiceConn.Ready {
				return nil
			}
		}
	}
}

func (p *RadioPipeline) fireEnd() {
	p.endOnce.Do(func() {
		if p.onEnd != nil {
			p.onEnd()
		}
	})
}

// Stop halts the pipeline. Safe to call more than once and from any
// goroutine; a stopped pipeline never fires its end callback.
func (p *RadioPipeline) Stop() {
	p.endOnce.Do(func() {}) // suppress the natural-end callback

	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancel()
	if p.ffmpegCmd != nil && p.ffmpegCmd.Process != nil {
		p.ffmpegCmd.Process.Kill()
	}
	if p.voiceConn != nil {
		p.voiceConn.Speaking(false)
	}
	p.playing = false
}

// IsPlaying reports whether the pipeline is currently streaming.
func (p *RadioPipeline) IsPlaying() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.playing
}

func drainPipe(rc io.ReadCloser) {
	defer rc.Close()
	buf := make([]byte, 1024)
	for {
		if _, err := rc.Read(buf); err != nil {
			return
		}
	}
}

func bytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}
