package runtime

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

// HTTPResponse is the shape every http.* effect call resolves to.
type HTTPResponse struct {
	Status int
	Body   []byte
	Header http.Header
}

// HTTPEffects implements the `http.{get, post, put, delete, head,
// request}` group over a shared *http.Client with a fixed timeout, so
// an emitted program's effectful HTTP call can never hang the host
// process indefinitely.
type HTTPEffects struct {
	client *http.Client
}

func newHTTPEffects() HTTPEffects {
	return HTTPEffects{client: &http.Client{Timeout: 30 * time.Second}}
}

func (h HTTPEffects) Get(url string) (*HTTPResponse, error) {
	return h.Request("GET", url, nil)
}

func (h HTTPEffects) Post(url string, body []byte) (*HTTPResponse, error) {
	return h.Request("POST", url, body)
}

func (h HTTPEffects) Put(url string, body []byte) (*HTTPResponse, error) {
	return h.Request("PUT", url, body)
}

func (h HTTPEffects) Delete(url string) (*HTTPResponse, error) {
	return h.Request("DELETE", url, nil)
}

func (h HTTPEffects) Head(url string) (*HTTPResponse, error) {
	return h.Request("HEAD", url, nil)
}

func (h HTTPEffects) Request(method, url string, body []byte) (*HTTPResponse, error) {
	client := h.client
	if client == nil {
		client = newHTTPEffects().client
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &HTTPResponse{Status: resp.StatusCode, Body: out, Header: resp.Header}, nil
}
