package server

import (
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpapi "notes-api/internal/api/http"
	"notes-api/internal/repository"
	"notes-api/internal/service/notes"
)

func newRoutes(store repository.NoteStore) http.Handler {
	return httpapi.NewHandler(notes.NewNoteService(store, zap.NewNop()), zap.NewNop()).Routes()
}

func freePort(t *testing.T) int {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	return lis.Addr().(*net.TCPAddr).Port
}
