package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/handlers/ws"
)

var isDraft bool

var newRoomCmd = &cobra.Command{
	Use:   "new-room",
	Short: "Allocate a fresh room code",
	Args:  cobra.NoArgs,
	RunE:  runNewRoom,
}

var deliverCmd = &cobra.Command{
	Use:   "deliver <room-id> <player-id> <cards.json>",
	Short: "Deliver generated cards to a player, standing in for the card generator",
	Long: `Posts a JSON array of cards read from a file (or - for stdin) to the
room's card callback. Use --draft to deliver a draft pool.`,
	Args: cobra.ExactArgs(3),
	RunE: runDeliver,
}

func init() {
	deliverCmd.Flags().BoolVar(&isDraft, "draft", false, "deliver the cards as a draft pool")
}

func runNewRoom(_ *cobra.Command, _ []string) error {
	resp, err := httpClient().Post(httpURL("/rooms"), "application/json", nil)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		RoomID string `json:"roomId"`
	}
	if err := decodeResponse(resp, http.StatusCreated, &body); err != nil {
		return err
	}

	fmt.Println(body.RoomID)
	return nil
}

func runDeliver(_ *cobra.Command, args []string) error {
	roomID, playerID, path := args[0], args[1], args[2]

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read cards: %w", err)
	}

	var cards []entities.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return fmt.Errorf("cards file must hold a JSON array of cards: %w", err)
	}

	payload, err := json.Marshal(ws.DeliverCardsRequest{
		PlayerID: playerID,
		Cards:    cards,
		IsDraft:  isDraft,
	})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := httpClient().Post(httpURL("/rooms/"+url.PathEscape(roomID)+"/cards"), "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to deliver cards: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out ws.DeliverCardsResponse
	if err := decodeResponse(resp, http.StatusOK, &out); err != nil {
		return err
	}

	fmt.Printf("Delivered %d cards to %s in room %s\n", len(cards), playerID, roomID)
	if out.AllHaveCards {
		fmt.Println("Every player has cards")
	}
	return nil
}

func decodeResponse(resp *http.Response, want int, into interface{}) error {
	if resp.StatusCode != want {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		if failure.Error == "" {
			failure.Error = resp.Status
		}
		return fmt.Errorf("server answered %d: %s", resp.StatusCode, failure.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}
