package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var idleFor string

var roomCmd = &cobra.Command{
	Use:   "room <room-id>",
	Short: "Show the snapshot of a room",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoom,
}

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List the rooms loaded on the server",
	Args:  cobra.NoArgs,
	RunE:  runRooms,
}

var evictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Unload rooms that have had no connections for a while",
	Args:  cobra.NoArgs,
	RunE:  runEvict,
}

func init() {
	evictCmd.Flags().StringVar(&idleFor, "idle", "", "idle duration, e.g. 10m (server default when empty)")
}

func runRoom(_ *cobra.Command, args []string) error {
	client, cleanup, err := createAdminClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.GetRoom(ctx, wrapperspb.String(args[0]))
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}
	return printMessage(resp)
}

func runRooms(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createAdminClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ListRooms(ctx, &emptypb.Empty{})
	if err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}

	rooms := resp.GetFields()["rooms"].GetListValue().GetValues()
	if len(rooms) == 0 {
		fmt.Println("No rooms loaded")
		return nil
	}

	fmt.Printf("%-6s %-14s %7s %10s %11s %4s  %s\n", "ROOM", "PHASE", "PLAYERS", "SPECTATORS", "CONNECTIONS", "GAME", "LAST ACTIVE")
	for _, v := range rooms {
		f := v.GetStructValue().GetFields()
		fmt.Printf("%-6s %-14s %7.0f %10.0f %11.0f %4.0f  %s\n",
			f["roomId"].GetStringValue(),
			f["phase"].GetStringValue(),
			f["players"].GetNumberValue(),
			f["spectators"].GetNumberValue(),
			f["connections"].GetNumberValue(),
			f["gameNumber"].GetNumberValue(),
			f["lastActive"].GetStringValue(),
		)
	}
	return nil
}

func runEvict(_ *cobra.Command, _ []string) error {
	req := &durationpb.Duration{}
	if idleFor != "" {
		d, err := parseDuration(idleFor)
		if err != nil {
			return err
		}
		req = durationpb.New(d)
	}

	client, cleanup, err := createAdminClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.EvictIdle(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to evict rooms: %w", err)
	}
	return printMessage(resp)
}
