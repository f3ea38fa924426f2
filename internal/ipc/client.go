package ipc

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"resty.dev/v3"

	"github.com/matjam/loopwall/internal/overlay"
)

func newClient() *resty.Client {
	path := SocketPath()

	client := resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
				return net.Dial("unix", path)
			},
		},
	})

	client.SetBaseURL("http://loopwall")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "loopwall")

	return client
}

func post(path string, body any) (*Response, error) {
	client := newClient()

	result := Response{}
	req := client.R().SetResult(&result)
	if body != nil {
		req.SetBody(body)
	}

	response, err := req.Post(path)
	if err != nil {
		return nil, err
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error sending command: %s", response.Status())
	}

	return &result, nil
}

// SendStatus fetches the daemon status. It doubles as the liveness probe:
// an error means no daemon is listening on the socket.
func SendStatus() (*StatusResponse, error) {
	client := newClient()

	result := StatusResponse{}
	response, err := client.R().SetResult(&result).Get("/status")
	if err != nil {
		return nil, fmt.Errorf("error pinging socket: %w", err)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error pinging socket: %s", response.Status())
	}

	return &result, nil
}

func SendStop() error {
	_, err := post("/stop", nil)
	return err
}

func SendRestart() error {
	_, err := post("/restart", nil)
	return err
}

func SendRebuild() error {
	_, err := post("/rebuild", nil)
	return err
}

func SendVolume(volume float64) error {
	_, err := post("/volume", VolumeRequest{Volume: volume})
	return err
}

func SendMute() error {
	_, err := post("/mute", nil)
	return err
}

func SendWatermarkText(text string) error {
	_, err := post("/watermark/text", TextRequest{Text: text})
	return err
}

func SendWatermarkOpacity(opacity float64) error {
	_, err := post("/watermark/opacity", OpacityRequest{Opacity: opacity})
	return err
}

func SendWatermarkShow(show bool) error {
	_, err := post("/watermark/show", ShowRequest{Show: show})
	return err
}

func SendWatermarkConfig(cfg overlay.Config) error {
	_, err := post("/watermark/config", cfg)
	return err
}
