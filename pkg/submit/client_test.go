package submit

import (
	"context"
	"net"
	"testing"
	"time"

	"ux-collector-be/pkg/experiment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve starts app on a loopback port and returns the collect URL.
func serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String() + "/api/collect"
}

func samplePayload() experiment.Payload {
	b := experiment.NewBuilder(func() experiment.DeviceDescriptor {
		return experiment.DeviceDescriptor{UserAgent: "test", ViewportW: 1280, ViewportH: 800}
	})
	return b.Build(map[string]any{
		"exp1": map[string]any{"variant": "A"},
		"exp5": map[string]any{"selected": "express"},
	})
}

func TestSubmit_Success(t *testing.T) {
	var got map[string]any
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/api/collect", func(c *fiber.Ctx) error {
		if err := c.BodyParser(&got); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "key": "runs/x.json"})
	})
	url := serve(t, app)

	var statuses []string
	client := NewClient(url)
	client.OnStatus = func(s string) { statuses = append(statuses, s) }

	res, err := client.Submit(context.Background(), samplePayload())

	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "runs/x.json", res.Key)
	assert.Equal(t, []string{StatusSending, StatusSent}, statuses)
	assert.Contains(t, got, "exp1")
	assert.Contains(t, got, "exp5")
	assert.Contains(t, got, "meta")
}

func TestSubmit_NonSuccessStatus(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/api/collect", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "invalid payload"})
	})
	url := serve(t, app)

	var last string
	client := NewClient(url)
	client.OnStatus = func(s string) { last = s }

	res, err := client.Submit(context.Background(), samplePayload())

	assert.Nil(t, res)
	require.EqualError(t, err, "upload failed: 400")
	assert.Equal(t, "Error sending: upload failed: 400", last)
}

func TestSubmit_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("http://127.0.0.1:1/api/collect").Submit(ctx, samplePayload())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubmit_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/api/collect")
	client.Timeout = time.Second

	_, err := client.Submit(context.Background(), samplePayload())

	assert.Error(t, err)
}
