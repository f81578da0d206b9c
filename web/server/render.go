package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Stats represents render statistics sent to the client
type Stats struct {
	Mode        string `json:"mode"`
	Workers     int    `json:"workers"`
	TotalPixels int    `json:"totalPixels"`
	PrimaryRays int    `json:"primaryRays"`
	RaysTraced  int64  `json:"raysTraced"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// ImageUpdate is the final SSE event of a streamed render
type ImageUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Stats     Stats  `json:"stats"`
}

// renderResult carries the outcome of a render goroutine
type renderResult struct {
	image *renderer.Image
	stats renderer.RenderStats
	err   error
}

func toStats(stats renderer.RenderStats) Stats {
	return Stats{
		Mode:        stats.Mode.String(),
		Workers:     stats.Workers,
		TotalPixels: stats.TotalPixels,
		PrimaryRays: stats.PrimaryRays,
		RaysTraced:  stats.RaysTraced,
		ElapsedMs:   stats.Duration.Milliseconds(),
	}
}

// renderScene builds the tracer, camera and renderer for a scene and renders it
func (s *Server) renderScene(ctx context.Context, sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) (*renderer.Image, renderer.RenderStats, error) {
	tracer, err := renderer.NewTracer(sceneObj, sceneObj.TracerConfig)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	camera, err := renderer.NewCamera(sceneObj.CameraConfig)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	config := renderer.DefaultRenderConfig()
	config.Mode = req.Mode
	config.Workers = req.Workers
	r, err := renderer.NewRenderer(tracer, camera, config, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	img := renderer.NewImage(camera.ResolutionX(), camera.ResolutionY())
	stats, err := r.Render(ctx, img)
	if err != nil {
		return nil, stats, err
	}
	return img, stats, nil
}

// handleRender renders a scene and responds with the PNG image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Failed to create scene: %v", err))
		return
	}

	// Use request context to detect client disconnection
	img, stats, err := s.renderScene(r.Context(), sceneObj, req, NewWebLogger(req.Scene, nil))
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Pixels", strconv.Itoa(stats.TotalPixels))
	w.Header().Set("X-Render-Rays", strconv.FormatInt(stats.RaysTraced, 10))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing image: %v", err)
	}
}

// handleRenderStream renders a scene while streaming console output via SSE,
// finishing with an image event
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Failed to create scene: %v", err))
		return
	}

	renderID := fmt.Sprintf("%s-%d", req.Scene, time.Now().UnixNano())
	consoleChan := make(chan ConsoleMessage, 100)
	logger := NewWebLogger(renderID, consoleChan)
	logger.Printf("Scene %s: %d primitives, %d lights, acceleration %s\n",
		sceneObj.Name, sceneObj.GetPrimitiveCount(), len(sceneObj.Lights), sceneObj.Acceleration)

	done := make(chan renderResult, 1)
	go func() {
		img, stats, err := s.renderScene(ctx, sceneObj, req, logger)
		done <- renderResult{image: img, stats: stats, err: err}
	}()

	for {
		select {
		case msg := <-consoleChan:
			if err := s.sendSSEJSON(w, "console", msg); err != nil {
				return
			}
		case result := <-done:
			s.drainConsole(w, consoleChan)
			if dropped := logger.Dropped(); dropped > 0 {
				s.sendSSEJSON(w, "console", ConsoleMessage{
					RenderID:  renderID,
					Message:   fmt.Sprintf("Warning: %d console messages dropped\n", dropped),
					Timestamp: time.Now(),
					Level:     "warning",
				})
			}
			if result.err != nil {
				s.sendSSEError(w, fmt.Sprintf("Render error: %v", result.err))
				return
			}
			imageData, err := imageToBase64PNG(result.image)
			if err != nil {
				s.sendSSEError(w, fmt.Sprintf("Failed to encode image: %v", err))
				return
			}
			update := ImageUpdate{
				ImageData: imageData,
				Width:     result.image.Width(),
				Height:    result.image.Height(),
				Stats:     toStats(result.stats),
			}
			if err := s.sendSSEJSON(w, "image", update); err != nil {
				return
			}
			s.sendSSEEvent(w, "complete", "Rendering completed")
			return
		case <-ctx.Done():
			// Client disconnected; the render goroutine stops at its next pixel
			return
		}
	}
}

// drainConsole forwards messages logged before the render finished
func (s *Server) drainConsole(w http.ResponseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			if err := s.sendSSEJSON(w, "console", msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img *renderer.Image) (string, error) {
	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEJSON sends a JSON-encoded payload as an SSE event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
