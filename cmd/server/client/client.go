// Package client provides test commands against a running theme clash server
package client

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	adminv1alpha1 "github.com/KirkDiggler/theme-clash/internal/handlers/admin/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	httpAddr   string
	timeout    time.Duration
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the theme clash server",
	Long:  `Client commands inspect rooms over gRPC and drive the HTTP routes a card generator would call.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().StringVar(&httpAddr, "http", "http://localhost:8080", "HTTP server base URL")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Admin commands
	ClientCmd.AddCommand(roomCmd)
	ClientCmd.AddCommand(roomsCmd)
	ClientCmd.AddCommand(evictCmd)

	// HTTP commands
	ClientCmd.AddCommand(newRoomCmd)
	ClientCmd.AddCommand(deliverCmd)
}

// createAdminClient creates a room admin client
func createAdminClient() (adminv1alpha1.RoomAdminClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return adminv1alpha1.NewRoomAdminClient(conn), cleanup, nil
}

func httpClient() *http.Client {
	return &http.Client{Timeout: timeout}
}

func httpURL(path string) string {
	return strings.TrimSuffix(httpAddr, "/") + path
}

func printMessage(msg proto.Message) error {
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
