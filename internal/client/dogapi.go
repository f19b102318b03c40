package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dogceo/browser/internal/config"
	"dogceo/browser/internal/domain"
	"dogceo/browser/internal/metrics"
	"dogceo/browser/internal/notify"
	"dogceo/browser/internal/proxy"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// DogAPIClient reads the dog breed API. Every error it returns matches
// domain.ErrAbsent; callers that only care about presence can test err != nil.
type DogAPIClient interface {
	ListAllBreeds(ctx context.Context) (domain.BreedDictionary, error)
	RandomImage(ctx context.Context) (string, error)
	ListImagesForBreed(ctx context.Context, name domain.BreedName) (domain.ImageList, error)
	ListSubBreeds(ctx context.Context, name domain.BreedName) (domain.SubBreedList, error)
}

const (
	opListAllBreeds = "list_all_breeds"
	opRandomImage   = "random_image"
	opBreedImages   = "breed_images"
	opSubBreeds     = "sub_breeds"
)

type dogAPIClient struct {
	rl            ratelimit.Limiter
	baseURL       string
	timeout       time.Duration
	httpClient    *resty.Client
	proxySupplier proxy.ProxySupplier
	notifier      notify.Notifier
}

func NewDogAPIClient(cfg config.DogAPIConfig, proxySupplier proxy.ProxySupplier, notifier notify.Notifier) DogAPIClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	// One best-effort GET per call: no retries.
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	if notifier == nil {
		notifier = notify.NewLogNotifier(nil)
	}

	return &dogAPIClient{
		rl:            rl,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		timeout:       timeout,
		httpClient:    client,
		proxySupplier: proxySupplier,
		notifier:      notifier,
	}
}

func (c *dogAPIClient) ListAllBreeds(ctx context.Context) (domain.BreedDictionary, error) {
	breeds, err := fetch[domain.BreedDictionary](ctx, c, opListAllBreeds, "breeds/list/all")
	if err != nil {
		c.report(ctx, "could not fetch the list of breeds", err)
		return nil, err
	}
	if breeds == nil {
		breeds = domain.BreedDictionary{}
	}
	return breeds, nil
}

func (c *dogAPIClient) RandomImage(ctx context.Context) (string, error) {
	image, err := fetch[string](ctx, c, opRandomImage, "breeds/image/random")
	if err != nil {
		c.report(ctx, "could not fetch a random image", err)
		return "", err
	}
	return image, nil
}

func (c *dogAPIClient) ListImagesForBreed(ctx context.Context, name domain.BreedName) (domain.ImageList, error) {
	if name.IsEmpty() {
		return nil, domain.ErrEmptyBreed
	}

	breed := name.Normalize()
	images, err := fetch[domain.ImageList](ctx, c, opBreedImages, breedPath(breed, "images"))
	if err != nil {
		c.report(ctx, fmt.Sprintf("could not fetch the images of breed %s", breed), err)
		return nil, err
	}
	return images, nil
}

func (c *dogAPIClient) ListSubBreeds(ctx context.Context, name domain.BreedName) (domain.SubBreedList, error) {
	if name.IsEmpty() {
		return nil, domain.ErrEmptyBreed
	}

	breed := name.Normalize()
	subBreeds, err := fetch[domain.SubBreedList](ctx, c, opSubBreeds, breedPath(breed, "list"))
	if err != nil {
		c.report(ctx, fmt.Sprintf("could not fetch the sub-breeds of breed %s", breed), err)
		return nil, err
	}
	return subBreeds, nil
}

func breedPath(breed domain.BreedName, resource string) string {
	return fmt.Sprintf("breed/%s/%s", url.PathEscape(breed.String()), resource)
}

func (c *dogAPIClient) report(ctx context.Context, what string, err error) {
	c.notifier.Notify(ctx, notify.Notice{
		Level:   notify.LevelError,
		Message: fmt.Sprintf("%s: %v", what, err),
	})
}

// fetch issues the GET and unwraps the envelope payload into T.
func fetch[T any](ctx context.Context, c *dogAPIClient, operation, path string) (T, error) {
	var zero T
	start := time.Now()

	envelope, err := c.get(ctx, path)
	if err != nil {
		metrics.ObserveUpstream(operation, outcome(err), time.Since(start))
		return zero, err
	}

	var payload T
	if err := json.Unmarshal(envelope.Message, &payload); err != nil {
		err = fmt.Errorf("%w: unexpected payload for %s: %v", domain.ErrServer, path, err)
		metrics.ObserveUpstream(operation, outcome(err), time.Since(start))
		return zero, err
	}

	metrics.ObserveUpstream(operation, "success", time.Since(start))
	log.Debugf("Fetched %s in %v", path, time.Since(start).Round(time.Millisecond))
	return payload, nil
}

func (c *dogAPIClient) get(ctx context.Context, path string) (*domain.Envelope, error) {
	c.rl.Take()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/" + path
	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		Get(endpoint)

	if err != nil {
		c.rotateProxy()
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: request cancelled: %v", domain.ErrNetwork, ctx.Err())
		}
		return nil, fmt.Errorf("%w: failed to fetch %s: %v", domain.ErrNetwork, path, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: HTTP %d for %s", domain.ErrServer, resp.StatusCode(), path)
	}

	return decodeEnvelope([]byte(resp.String()), path)
}

// decodeEnvelope trusts message only when status is "success".
func decodeEnvelope(body []byte, path string) (*domain.Envelope, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed response for %s", domain.ErrServer, path)
	}

	parsed := gjson.ParseBytes(body)
	message := parsed.Get("message")
	envelope := &domain.Envelope{
		Status: parsed.Get("status").String(),
		Code:   int(parsed.Get("code").Int()),
	}
	if message.Exists() {
		envelope.Message = json.RawMessage(message.Raw)
	}

	if !envelope.IsSuccess() {
		if envelope.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrNotFound, path, message.String())
		}
		return nil, fmt.Errorf("%w: status %q for %s", domain.ErrServer, envelope.Status, path)
	}

	if !message.Exists() {
		return nil, fmt.Errorf("%w: empty payload for %s", domain.ErrServer, path)
	}

	return envelope, nil
}

func (c *dogAPIClient) rotateProxy() {
	if c.proxySupplier == nil {
		return
	}
	if newProxy := c.proxySupplier.Get(); newProxy != "" {
		log.Infof("🔄 Switching to proxy %s for the next request", newProxy)
		c.httpClient.SetProxy(newProxy)
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrNetwork):
		return "network_error"
	default:
		return "server_error"
	}
}
