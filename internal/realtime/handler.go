package realtime

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/harshaaa-5/aivy-1/internal/auth"
	"github.com/harshaaa-5/aivy-1/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Handler is the connection gate: it verifies the bearer credential exactly
// once, synchronously, before the websocket upgrade. Rejected connections
// never reach the event layer.
func Handler(hub *Hub, verifier auth.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := credentialFromRequest(r)
		if token == "" {
			rejectedConnectionsTotal.WithLabelValues("no_token").Inc()
			http.Error(w, auth.ErrNoToken.Error(), http.StatusUnauthorized)
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			rejectedConnectionsTotal.WithLabelValues("invalid_token").Inc()
			http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Logger.Warn().Err(err).Msg("ws upgrade failed")
			return
		}

		NewConn(identity, ws, hub) // goroutines start inside NewConn
	}
}

// credentialFromRequest pulls the handshake token from the query string or,
// failing that, an Authorization bearer header.
func credentialFromRequest(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	ah := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return strings.TrimSpace(ah[len("bearer "):])
	}
	return ""
}
