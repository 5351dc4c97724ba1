// Copyright 2026 The Govisor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/streamvisor"
)

// Client talks to the status API of a streamvisord.
type Client struct {
	base   string // URI to root of tree on server
	client *http.Client

	// Cached snapshot of all workers, keyed by the server's etag.
	lock    sync.Mutex
	etag    string
	workers []*streamvisor.WorkerInfo
}

// NewClient returns a Client for the server at baseURI.  The transport may
// be nil to use http.DefaultTransport.
func NewClient(t http.RoundTripper, baseURI string) *Client {
	if t == nil {
		t = http.DefaultTransport
	}
	return &Client{
		base:   strings.TrimRight(baseURI, "/"),
		client: &http.Client{Transport: t},
	}
}

func (c *Client) url(name string) string {
	if name == "" {
		return c.base + "/workers"
	}
	return c.base + "/workers/" + url.PathEscape(name)
}

// get issues a GET, decoding a JSON result into v.  If etag is not empty
// and the server reports no change, the returned tag is empty and v is
// left alone.
func (c *Client) get(ctx context.Context, u string, etag string, v interface{}) (string, error) {
	req, e := http.NewRequestWithContext(ctx, "GET", u, nil)
	if e != nil {
		return "", e
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	res, e := c.client.Do(req)
	if e != nil {
		return "", e
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotModified {
		return "", nil
	}
	if res.StatusCode != http.StatusOK {
		return "", &Error{Code: res.StatusCode, Message: res.Status}
	}
	body, e := io.ReadAll(res.Body)
	if e != nil {
		return "", e
	}
	if e := json.Unmarshal(body, v); e != nil {
		return "", e
	}
	return res.Header.Get("Etag"), nil
}

func (c *Client) Info(ctx context.Context) (*streamvisor.Info, error) {
	v := &streamvisor.Info{}
	if _, e := c.get(ctx, c.base+"/", "", v); e != nil {
		return nil, e
	}
	return v, nil
}

// Workers returns the worker names, in the supervisor's order.
func (c *Client) Workers(ctx context.Context) ([]string, error) {
	v := []string{}
	if _, e := c.get(ctx, c.url(""), "", &v); e != nil {
		return nil, e
	}
	return v, nil
}

func (c *Client) Worker(ctx context.Context, name string) (*streamvisor.WorkerInfo, error) {
	v := &streamvisor.WorkerInfo{}
	if _, e := c.get(ctx, c.url(name), "", v); e != nil {
		return nil, e
	}
	return v, nil
}

// Snapshot returns every worker, fetched in a single request.  The result
// is cached, and only fetched again when the server reports a change.  The
// boolean is true if the result differs from the previous call.
func (c *Client) Snapshot(ctx context.Context) ([]*streamvisor.WorkerInfo, bool, error) {
	c.lock.Lock()
	otag := c.etag
	old := c.workers
	c.lock.Unlock()

	infos := []*streamvisor.WorkerInfo{}
	etag, e := c.get(ctx, c.base+"/status", otag, &infos)
	if e != nil {
		return nil, false, e
	}
	if etag == "" && otag != "" {
		return old, false, nil
	}
	c.lock.Lock()
	c.etag = etag
	c.workers = infos
	c.lock.Unlock()
	return infos, true, nil
}

// WorkerLog returns the last lines of the worker's output.
func (c *Client) WorkerLog(ctx context.Context, name string, lines int) ([]string, error) {
	v := []string{}
	u := c.url(name) + "/log?lines=" + strconv.Itoa(lines)
	if _, e := c.get(ctx, u, "", &v); e != nil {
		return nil, e
	}
	return v, nil
}

// Log returns the supervisor's own log.
func (c *Client) Log(ctx context.Context) ([]streamvisor.LogRecord, error) {
	v := []streamvisor.LogRecord{}
	if _, e := c.get(ctx, c.base+"/log", "", &v); e != nil {
		return nil, e
	}
	return v, nil
}
