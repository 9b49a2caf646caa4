package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sentioai/chat"
	"sentioai/db"
	"sentioai/emotion"
	"sentioai/models"
	"sentioai/stt"
	"sentioai/utils"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/mdobak/go-xerrors"
)

type apiError struct {
	Message string `json:"message"`
}

type transcriptionResponse struct {
	Transcript string `json:"transcript"`
	VoiceTone  string `json:"voiceTone"`
}

type exportRequest struct {
	Path string `json:"path,omitempty"`
}

type exportResponse struct {
	Path string `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Message: message})
}

func setCORS(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Credentials", "true")
}

func newJournalEntriesHandler(store db.JournalStore, companion *chat.Companion) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()
		setCORS(w, "GET, POST")

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusNoContent)

		case http.MethodGet:
			var entries []models.JournalEntry
			var err error
			if filter := strings.TrimSpace(r.URL.Query().Get("emotion")); filter != "" {
				entries, err = store.GetEntriesByEmotion(filter)
			} else {
				entries, err = store.GetAllEntries()
			}
			if err != nil {
				err := xerrors.New(err)
				logger.ErrorContext(ctx, "failed to load journal entries", slog.Any("error", err))
				writeJSONError(w, http.StatusInternalServerError, "failed to load journal entries")
				return
			}
			if entries == nil {
				entries = []models.JournalEntry{}
			}
			writeJSON(w, http.StatusOK, entries)

		case http.MethodPost:
			var req models.JournalEntryRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				logger.ErrorContext(ctx, "failed to parse request body", slog.Any("error", err))
				writeJSONError(w, http.StatusBadRequest, "invalid request payload")
				return
			}
			if strings.TrimSpace(req.EntryText) == "" {
				writeJSONError(w, http.StatusBadRequest, "entryText is required")
				return
			}
			if req.Emotion == "" {
				req.Emotion = emotion.DefaultEmotion
			}

			entry := &models.JournalEntry{
				Emotion:    req.Emotion,
				Confidence: req.Confidence,
				Prompt:     req.Prompt,
				EntryText:  req.EntryText,
				VoiceData:  req.VoiceData,
			}

			if req.WantAIResponse && companion != nil {
				reply := companion.GenerateResponse(req.EntryText, req.Emotion, req.Confidence, req.VoiceData)
				entry.AIResponse = reply.Response
			}

			if err := store.InsertEntry(entry); err != nil {
				err := xerrors.New(err)
				logger.ErrorContext(ctx, "failed to store journal entry", slog.Any("error", err))
				writeJSONError(w, http.StatusInternalServerError, "failed to store journal entry")
				return
			}

			logger.InfoContext(ctx, "stored journal entry",
				slog.String("id", entry.ID),
				slog.String("emotion", entry.Emotion),
				slog.Bool("hasAIResponse", entry.AIResponse != ""),
			)
			writeJSON(w, http.StatusOK, entry)

		default:
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

func newCompanionHandler(companion *chat.Companion) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()
		setCORS(w, "POST")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if companion == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "companion is not configured")
			return
		}

		var req models.CompanionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.ErrorContext(ctx, "failed to parse request body", slog.Any("error", err))
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		if strings.TrimSpace(req.EntryText) == "" {
			writeJSONError(w, http.StatusBadRequest, "entryText is required")
			return
		}
		if req.Emotion == "" {
			req.Emotion = emotion.DefaultEmotion
		}

		started := time.Now()
		reply := companion.GenerateResponse(req.EntryText, req.Emotion, req.Confidence, req.VoiceData)
		logger.InfoContext(ctx, "companion reply generated",
			slog.Float64("latency_ms", time.Since(started).Seconds()*1000),
			slog.String("emotion", req.Emotion),
			slog.Bool("success", reply.Success),
		)

		writeJSON(w, http.StatusOK, reply)
	}
}

func newTranscribeHandler(transcriber *stt.Transcriber) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()
		setCORS(w, "POST")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if transcriber == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "transcription is not configured")
			return
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			logger.ErrorContext(ctx, "failed to parse multipart form", slog.Any("error", err))
			writeJSONError(w, http.StatusBadRequest, "invalid upload payload")
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "no audio file provided")
			return
		}
		defer file.Close()

		tempDir := filepath.Join("data", "uploads")
		if err := utils.CreateFolder(tempDir); err != nil {
			logger.ErrorContext(ctx, "failed to create temporary upload dir", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "internal error while preparing upload")
			return
		}

		ext := filepath.Ext(header.Filename)
		if ext == "" {
			ext = ".webm"
		}
		tempFile, err := os.CreateTemp(tempDir, "voice-*"+ext)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create temp file", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "internal error while preparing upload")
			return
		}
		defer os.Remove(tempFile.Name())

		if _, err := io.Copy(tempFile, file); err != nil {
			tempFile.Close()
			logger.ErrorContext(ctx, "failed to persist upload", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "internal error while persisting upload")
			return
		}
		tempFile.Close()

		transcript, err := transcriber.TranscribeFile(tempFile.Name())
		if err != nil {
			err := xerrors.New(err)
			logger.ErrorContext(ctx, "transcription failed", slog.Any("error", err))
			writeJSONError(w, http.StatusBadGateway, "transcription failed")
			return
		}

		tone := stt.AnalyzeVoiceTone()
		writeJSON(w, http.StatusOK, transcriptionResponse{
			Transcript: transcript,
			VoiceTone:  tone.String(),
		})
	}
}

func newSessionSummaryHandler(controller *socketController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORS(w, "GET")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		summary, ok := controller.sessionSummary()
		if !ok {
			writeJSONError(w, http.StatusNotFound, "no emotions logged yet")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func newSessionExportHandler(controller *socketController) http.HandlerFunc {
	logger := utils.GetLogger()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.Background()
		setCORS(w, "POST")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req exportRequest
		if r.Body != nil {
			// An empty body means a default export path.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		path, err := controller.exportLog(req.Path)
		if err != nil {
			err := xerrors.New(err)
			logger.ErrorContext(ctx, "failed to export session log", slog.Any("error", err))
			writeJSONError(w, http.StatusInternalServerError, "failed to export session log")
			return
		}

		logger.InfoContext(ctx, "exported session log", slog.String("path", path))
		writeJSON(w, http.StatusOK, exportResponse{Path: path})
	}
}

func serve(protocol, port string) {
	protocol = strings.ToLower(protocol)
	var allowOriginFunc = func(r *http.Request) bool {
		return true
	}

	serviceURL := utils.GetEnv("EMOTION_SERVICE_URL", "http://localhost:5003")
	classifier := emotion.NewRemoteClassifier(serviceURL)
	if err := classifier.HealthCheck(); err != nil {
		log.Printf("WARNING: %v\n", err)
		log.Println("The server will start but emotion detection will fail until the analysis service is running.")
	} else {
		log.Printf("Emotion analysis service is available at %s\n", serviceURL)
	}

	windowStr := utils.GetEnv("EMOTION_SMOOTHING_WINDOW", "8")
	window, err := strconv.Atoi(windowStr)
	if err != nil {
		log.Fatalf("invalid EMOTION_SMOOTHING_WINDOW value '%s': %v", windowStr, err)
	}
	intervalStr := utils.GetEnv("EMOTION_DETECTION_INTERVAL", "3s")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		log.Fatalf("invalid EMOTION_DETECTION_INTERVAL value '%s': %v", intervalStr, err)
	}

	detector, err := emotion.NewDetector(classifier, window, interval)
	if err != nil {
		log.Fatalf("failed to build emotion detector: %v", err)
	}

	store, err := db.NewJournalStore()
	if err != nil {
		log.Fatalf("failed to open journal store: %v", err)
	}
	defer store.Close()

	companion, err := chat.NewCompanion()
	if err != nil {
		log.Printf("WARNING: companion disabled: %v\n", err)
		companion = nil
	}

	transcriber, err := stt.NewTranscriber(context.Background())
	if err != nil {
		log.Printf("WARNING: transcription disabled: %v\n", err)
		transcriber = nil
	}

	controller := newSocketController(detector)

	server := socketio.NewServer(&engineio.Options{
		PingTimeout:  60 * time.Second,
		PingInterval: 25 * time.Second,
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: allowOriginFunc,
			},
			&polling.Transport{
				CheckOrigin: allowOriginFunc,
			},
		},
	})

	server.OnConnect("/", func(socket socketio.Conn) error {
		socket.SetContext("")
		connURL := socket.URL()
		log.Printf("CONNECTED: %s, transport: %s, remote addr: %s\n", socket.ID(), connURL.String(), socket.RemoteAddr())
		controller.emitLastResult(socket)
		return nil
	})

	server.OnEvent("/", "frame", func(socket socketio.Conn, msg string) {
		// Run handler in goroutine to prevent blocking, with panic recovery
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("panic in handleFrame for socket %s: %v\n", socket.ID(), r)
					socket.Emit("detectionError", map[string]string{"message": "internal server error during processing"})
				}
			}()
			controller.handleFrame(socket, msg)
		}()
	})

	server.OnEvent("/", "requestSessionSummary", func(socket socketio.Conn) {
		log.Printf("requestSessionSummary received from %s\n", socket.ID())
		controller.handleRequestSessionSummary(socket)
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("meet error:", e)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Printf("Socket disconnected - ID: %s, Reason: %s\n", s.ID(), reason)
	})

	go func() {
		if err := server.Serve(); err != nil {
			log.Fatalf("socketio listen error: %s\n", err)
		}
	}()
	defer server.Close()

	serveHTTPS := protocol == "https"

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	mux.HandleFunc("/api/journal/entries", newJournalEntriesHandler(store, companion))
	mux.HandleFunc("/api/companion/respond", newCompanionHandler(companion))
	mux.HandleFunc("/api/transcribe", newTranscribeHandler(transcriber))
	mux.HandleFunc("/api/session/summary", newSessionSummaryHandler(controller))
	mux.HandleFunc("/api/session/export", newSessionExportHandler(controller))
	mux.Handle("/", http.FileServer(http.Dir("static")))

	serveHTTP(server, serveHTTPS, port, mux)
}

func serveHTTP(socketServer *socketio.Server, serveHTTPS bool, port string, handler http.Handler) {
	if handler == nil {
		handler = socketServer
	}
	if serveHTTPS {
		httpsAddr := ":" + port
		httpsServer := &http.Server{
			Addr: httpsAddr,
			TLSConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			Handler: handler,
		}

		cert_key_default := "/etc/letsencrypt/live/localport.online/privkey.pem"
		cert_file_default := "/etc/letsencrypt/live/localport.online/fullchain.pem"

		cert_key := utils.GetEnv("CERT_KEY", cert_key_default)
		cert_file := utils.GetEnv("CERT_FILE", cert_file_default)
		if cert_key == "" || cert_file == "" {
			log.Fatal("Missing cert")
		}

		log.Printf("Starting HTTPS server on %s\n", httpsAddr)
		if err := httpsServer.ListenAndServeTLS(cert_file, cert_key); err != nil {
			log.Fatalf("HTTPS server ListenAndServeTLS: %v", err)
		}
	}

	log.Printf("Starting HTTP server on port %v", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("HTTP server ListenAndServe: %v", err)
	}
}
