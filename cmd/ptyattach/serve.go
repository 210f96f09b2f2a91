//go:build unix

package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/radical-cybertools/saga-go-pty/ptyprocess"
)

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve -- <command> [args...]",
		Short: "Expose a command behind a pty over a websocket",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr, args)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8088", "address to listen on")
	return cmd
}

// controlMessage mirrors LXD's api.ContainerExecControl wire shape. Only
// the "window-resize" command is acted on; Signal is decoded but unused.
type controlMessage struct {
	Command string            `json:"command"`
	Args    map[string]string `json:"args,omitempty"`
	Signal  int               `json:"signal,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// runServe spawns the command once at startup and serves that one process
// to every websocket client that connects. There is no auth, no multiplexed
// sessions, no reconnection: this is a wire-format demo of
// *ptyprocess.Controller driven remotely, not a production exec service.
func runServe(cmd *cobra.Command, addr string, args []string) error {
	log := loggerFor(cmd)

	proc, err := ptyprocess.New(args,
		ptyprocess.WithLogger(log),
		ptyprocess.WithRecoverMax(recoverMaxFor(cmd)),
	)
	if err != nil {
		return err
	}
	defer proc.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/exec", func(w http.ResponseWriter, r *http.Request) {
		serveExecConn(proc, log, w, r)
	})

	log.Info("listening", nil)
	return http.ListenAndServe(addr, mux)
}

// serveExecConn handles exactly one websocket connection: one goroutine
// mirrors child output to the socket, one mirrors socket frames (data or
// control JSON, disambiguated by message type) into the child's stdin or
// into Resize.
func serveExecConn(proc *ptyprocess.Controller, log ptyprocess.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}
	defer conn.Close()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			mt, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			switch mt {
			case websocket.TextMessage:
				handleControl(proc, log, payload)
			case websocket.BinaryMessage:
				if werr := proc.Write(payload); werr != nil {
					return
				}
			}
		}
	}()

	for {
		select {
		case <-readerDone:
			return
		default:
		}

		data, err := proc.Read(0, 500*time.Millisecond)
		if len(data) > 0 {
			if werr := conn.WriteMessage(websocket.BinaryMessage, data); werr != nil {
				return
			}
		}
		if err != nil {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, proc.Autopsy()))
			return
		}
	}
}

func handleControl(proc *ptyprocess.Controller, log ptyprocess.Logger, payload []byte) {
	var msg controlMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Debug("bad control message", map[string]interface{}{"error": err.Error()})
		return
	}

	switch msg.Command {
	case "window-resize":
		rows, cols := atoiOr(msg.Args["height"], 0), atoiOr(msg.Args["width"], 0)
		if rows > 0 && cols > 0 {
			if err := proc.Resize(rows, cols); err != nil {
				log.Debug("resize failed", map[string]interface{}{"error": err.Error()})
			}
		}
	default:
		log.Debug("unknown control command", map[string]interface{}{"command": msg.Command})
	}
}

func atoiOr(s string, fallback int) int {
	n := 0
	if s == "" {
		return fallback
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
	}
	return n
}
