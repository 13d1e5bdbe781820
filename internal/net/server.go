package net

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"LocalPaint/internal/session"
)

//go:embed static/index.html
var static embed.FS

// ServerOptions configure the browser front-end.
type ServerOptions struct {
	ListenAddress string
	Advertise     bool
	Instance      string
	JPEGFilename  string
	PDFFilename   string
}

// Server exposes one drawing session to a browser.
type Server struct {
	session  *session.Session
	peers    *PeerManager
	upgrader websocket.Upgrader
	opts     ServerOptions
	id       string
}

func NewServer(s *session.Session, opts ServerOptions) *Server {
	if opts.JPEGFilename == "" {
		opts.JPEGFilename = "paint-example.jpeg"
	}
	if opts.PDFFilename == "" {
		opts.PDFFilename = "paint-example.pdf"
	}
	return &Server{
		session: s,
		peers:   NewPeerManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		opts: opts,
		id:   uuid.NewString(),
	}
}

// ID identifies this server instance in mDNS records and logs.
func (srv *Server) ID() string {
	return srv.id
}

func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", srv.handleIndex)
	mux.HandleFunc("GET /ws", srv.handleWS)
	mux.HandleFunc("GET /state", srv.handleState)
	mux.HandleFunc("GET /preview.jpeg", srv.handlePreview)
	mux.HandleFunc("GET /canvas.jpeg", srv.handleJPEG)
	mux.HandleFunc("GET /canvas.pdf", srv.handlePDF)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (srv *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", srv.opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to start server on %s: %w", srv.opts.ListenAddress, err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	log.Printf("[NET] canvas %s at %s", srv.id, ShareURL(LocalIP(), port))

	if srv.opts.Advertise {
		zone, err := Advertise(srv.opts.Instance, port, srv.id)
		if err != nil {
			log.Printf("[NET] mDNS advertise failed, continuing without it: %v", err)
		} else {
			defer zone.Shutdown()
		}
	}

	httpSrv := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- httpSrv.Serve(listener) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func (srv *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (srv *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Snapshot(srv.session))
}

// handlePreview serves the live pixels without counting as a download.
func (srv *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := srv.session.WritePreview(&buf); err != nil {
		http.Error(w, "preview failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (srv *Server) handleJPEG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := srv.session.ExportJPEG(&buf); err != nil {
		log.Printf("[NET] jpeg export failed: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	srv.attach(w, "image/jpeg", srv.opts.JPEGFilename, buf.Bytes())
}

func (srv *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := srv.session.ExportPDF(&buf); err != nil {
		log.Printf("[NET] pdf export failed: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	srv.attach(w, "application/pdf", srv.opts.PDFFilename, buf.Bytes())
}

func (srv *Server) attach(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

func (srv *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	peer := &Peer{ID: uuid.NewString(), Addr: r.RemoteAddr}
	if !srv.peers.Claim(peer) {
		http.Error(w, "canvas already has a controller", http.StatusConflict)
		return
	}
	defer srv.peers.Release(peer)
	// A controller that vanishes mid-drag must not leave the pointer down for the next one.
	defer srv.session.PointerUp()

	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[NET] upgrade %s failed: %v", peer.Addr, err)
		return
	}
	defer conn.Close()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[NET] controller %s read: %v", peer.ID, err)
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := Dispatch(ctx, srv.session, ev)
		cancel()

		reply := Snapshot(srv.session)
		if err != nil {
			reply.Error = err.Error()
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("[NET] controller %s write: %v", peer.ID, err)
			return
		}
	}
}
