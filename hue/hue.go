package hue

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jsphweid/chordlight/model"
	"github.com/jsphweid/chordlight/palette"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrNoLights = errors.New("bridge reports no color lights")

const requestTimeout = 2 * time.Second

type Options struct {
	URL  string
	User string
	// LightIDs skips discovery when set.
	LightIDs []string
	// TransitionTime is in multiples of 100ms.
	TransitionTime int
	HTTPClient     *http.Client
}

// Client talks to a Hue-style bridge over its REST API.
type Client struct {
	baseURL        string
	user           string
	transitionTime int
	http           *http.Client
	logger         *log.Entry

	mu       sync.Mutex
	lightIDs []string

	sendMu   sync.Mutex
	pending  *update
	draining bool
	inflight sync.WaitGroup
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.URL, "/"),
		user:           opts.User,
		transitionTime: opts.TransitionTime,
		http:           httpClient,
		lightIDs:       append([]string(nil), opts.LightIDs...),
		logger:         log.WithFields(log.Fields{"bridge": opts.URL}),
	}
}

type light struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type apiError struct {
	Error *struct {
		Type        int    `json:"type"`
		Address     string `json:"address"`
		Description string `json:"description"`
	} `json:"error"`
}

// Lights asks the bridge for its color capable lights, sorted by id.
func (c *Client) Lights(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("lights"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building lights request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "listing lights")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading lights response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("listing lights: bridge answered %s", resp.Status)
	}
	if err := bridgeError(body); err != nil {
		return nil, errors.Wrap(err, "listing lights")
	}

	var lights map[string]light
	if err := json.Unmarshal(body, &lights); err != nil {
		return nil, errors.Wrap(err, "decoding lights")
	}

	var ids []string
	for id, l := range lights {
		if strings.Contains(strings.ToLower(l.Type), "color") {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoLights
	}
	sortIDs(ids)
	return ids, nil
}

// Discover fills in the light ids from the bridge unless they were configured.
func (c *Client) Discover(ctx context.Context) ([]string, error) {
	if ids := c.LightIDs(); len(ids) > 0 {
		return ids, nil
	}
	ids, err := c.Lights(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.lightIDs = ids
	c.mu.Unlock()
	c.logger.WithField("lights", ids).Info("found color lights")
	return ids, nil
}

func (c *Client) LightIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lightIDs...)
}

func (c *Client) Convert(col colorful.Color) model.BridgeColor {
	return palette.ToBridgeColor(col)
}

type lightState struct {
	On             bool       `json:"on"`
	XY             [2]float64 `json:"xy"`
	Bri            int        `json:"bri"`
	TransitionTime int        `json:"transitiontime"`
}

type update struct {
	colors []model.BridgeColor
	bri    int
}

// SendLightUpdate sets light i to colors[i] at the given intensity. It returns
// immediately; failures are logged and not retried. Updates reach the bridge
// in the order they were sent, and an update still waiting when a newer one
// arrives is dropped, so the lights always end on the latest chord.
func (c *Client) SendLightUpdate(colors []model.BridgeColor, intensity float64) {
	u := &update{
		colors: append([]model.BridgeColor(nil), colors...),
		bri:    Brightness(intensity),
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	c.pending = u
	if c.draining {
		return
	}
	c.draining = true
	c.inflight.Add(1)
	go c.drain()
}

// drain applies pending updates one at a time until none is left.
func (c *Client) drain() {
	defer c.inflight.Done()
	for {
		c.sendMu.Lock()
		u := c.pending
		c.pending = nil
		if u == nil {
			c.draining = false
			c.sendMu.Unlock()
			return
		}
		c.sendMu.Unlock()
		c.apply(u)
	}
}

func (c *Client) apply(u *update) {
	for i, id := range c.LightIDs() {
		if i >= len(u.colors) {
			break
		}
		state := lightState{
			On:             true,
			XY:             [2]float64{u.colors[i].X, u.colors[i].Y},
			Bri:            u.bri,
			TransitionTime: c.transitionTime,
		}
		if err := c.setState(id, state); err != nil {
			c.logger.WithError(err).WithField("light", id).Warn("light update failed")
		}
	}
}

// Wait blocks until every update sent so far has finished.
func (c *Client) Wait() {
	c.inflight.Wait()
}

func (c *Client) setState(id string, state lightState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url("lights", id, "state"), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("bridge answered %s", resp.Status)
	}
	return bridgeError(body)
}

func (c *Client) url(parts ...string) string {
	return c.baseURL + "/api/" + c.user + "/" + strings.Join(parts, "/")
}

// Brightness maps intensity in [0,1] onto the bridge's 1-254 range.
func Brightness(intensity float64) int {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	return 1 + int(math.Round(intensity*253))
}

// bridgeError picks the first error out of the bridge's list-shaped replies.
// The bridge reports most failures with a 200 status.
func bridgeError(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var replies []apiError
	if err := json.Unmarshal(trimmed, &replies); err != nil {
		return errors.Wrap(err, "decoding bridge reply")
	}
	for _, r := range replies {
		if r.Error != nil {
			return errors.Errorf("bridge error %d at %s: %s", r.Error.Type, r.Error.Address, r.Error.Description)
		}
	}
	return nil
}

func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
}
