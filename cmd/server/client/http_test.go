package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/theme-clash/internal/handlers/ws"
)

type HTTPCommandsTestSuite struct {
	suite.Suite
	server   *httptest.Server
	requests []*ws.DeliverCardsRequest
	status   int
}

func TestHTTPCommandsSuite(t *testing.T) {
	suite.Run(t, new(HTTPCommandsTestSuite))
}

func (s *HTTPCommandsTestSuite) SetupTest() {
	s.requests = nil
	s.status = http.StatusOK

	mux := http.NewServeMux()
	mux.HandleFunc("POST /rooms", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"roomId":"HJKL"}`))
	})
	mux.HandleFunc("POST /rooms/{roomID}/cards", func(w http.ResponseWriter, r *http.Request) {
		var req ws.DeliverCardsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.requests = append(s.requests, &req)

		w.WriteHeader(s.status)
		if s.status != http.StatusOK {
			_, _ = w.Write([]byte(`{"success":false,"error":"Room is not waiting for cards"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"allHaveCards":true}`))
	})
	s.server = httptest.NewServer(mux)

	httpAddr = s.server.URL + "/"
	timeout = 5 * time.Second
	isDraft = false
}

func (s *HTTPCommandsTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *HTTPCommandsTestSuite) cardsFile() string {
	path := filepath.Join(s.T().TempDir(), "cards.json")
	s.Require().NoError(os.WriteFile(path, []byte(`[{"id":"c1","name":"Kraken","attack":5},{"id":"c2","name":"Gull"}]`), 0o600))
	return path
}

func (s *HTTPCommandsTestSuite) TestNewRoom() {
	s.NoError(runNewRoom(nil, nil))
}

func (s *HTTPCommandsTestSuite) TestDeliver() {
	isDraft = true
	s.Require().NoError(runDeliver(nil, []string{"ABCD", "conn-1", s.cardsFile()}))

	s.Require().Len(s.requests, 1)
	s.Equal("conn-1", s.requests[0].PlayerID)
	s.True(s.requests[0].IsDraft)
	s.Require().Len(s.requests[0].Cards, 2)
	s.Equal("Kraken", s.requests[0].Cards[0].Name)
}

func (s *HTTPCommandsTestSuite) TestDeliverReportsServerError() {
	s.status = http.StatusConflict

	err := runDeliver(nil, []string{"ABCD", "conn-1", s.cardsFile()})
	s.Require().Error(err)
	s.Contains(err.Error(), "409")
	s.Contains(err.Error(), "Room is not waiting for cards")
}

func (s *HTTPCommandsTestSuite) TestDeliverRejectsBadFile() {
	path := filepath.Join(s.T().TempDir(), "cards.json")
	s.Require().NoError(os.WriteFile(path, []byte(`{"not":"a list"}`), 0o600))

	s.Error(runDeliver(nil, []string{"ABCD", "conn-1", path}))
	s.Empty(s.requests)
}
