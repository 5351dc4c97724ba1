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
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gdamore/streamvisor"
)

// Handler wraps a Supervisor, adding http.Handler functionality.
type Handler struct {
	sv *streamvisor.Supervisor
	r  *mux.Router
}

func (h *Handler) internalError(w http.ResponseWriter, e error) {
	http.Error(w, e.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJson(w http.ResponseWriter, etag string, v interface{}) {
	if b, e := json.Marshal(v); e != nil {
		h.internalError(w, e)
	} else {
		w.Header().Set("Content-Type", mimeJson)
		if etag != "" {
			w.Header().Set("Etag", etag)
		}
		w.Write(b)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, e *Error) {
	if b, err := json.Marshal(e); err != nil {
		h.internalError(w, err)
	} else {
		w.Header().Set("Content-Type", mimeJson)
		w.WriteHeader(e.Code)
		w.Write(b)
	}
}

// etag returns the tag for the current snapshot, and true if the client
// already has it.
func (h *Handler) etag(r *http.Request) (string, bool) {
	tag := serialTag(h.sv.Serial())
	return tag, r.Header.Get("If-None-Match") == tag
}

func serialTag(serial int64) string {
	return `"` + strconv.FormatInt(serial, 16) + `"`
}

func (h *Handler) getInfo(w http.ResponseWriter, r *http.Request) {
	tag, same := h.etag(r)
	if same {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.writeJson(w, tag, h.sv.Info())
}

func (h *Handler) listWorkers(w http.ResponseWriter, r *http.Request) {
	tag, same := h.etag(r)
	if same {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	infos := h.sv.Workers()
	l := make([]string, 0, len(infos))
	for _, wi := range infos {
		l = append(l, wi.Name)
	}
	h.writeJson(w, tag, l)
}

// getStatus returns every worker in one response.  The list and its tag
// come from the same snapshot.
func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	infos, serial := h.sv.Snapshot()
	tag := serialTag(serial)
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.writeJson(w, tag, infos)
}

func (h *Handler) findWorker(name string) (streamvisor.WorkerInfo, *Error) {
	wi, e := h.sv.Worker(name)
	if e != nil {
		return wi, &Error{http.StatusNotFound, "Worker not found"}
	}
	return wi, nil
}

func (h *Handler) getWorker(w http.ResponseWriter, r *http.Request) {
	tag, same := h.etag(r)
	if same {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if wi, e := h.findWorker(mux.Vars(r)["worker"]); e != nil {
		h.writeError(w, e)
	} else {
		h.writeJson(w, tag, wi)
	}
}

func (h *Handler) getWorkerLog(w http.ResponseWriter, r *http.Request) {
	wi, e := h.findWorker(mux.Vars(r)["worker"])
	if e != nil {
		h.writeError(w, e)
		return
	}
	n := DefaultLogLines
	if s := r.URL.Query().Get("lines"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			h.writeError(w, &Error{http.StatusBadRequest, "Bad lines value"})
			return
		}
		n = v
	}
	if n > MaxLogLines {
		n = MaxLogLines
	}
	lines, err := TailFile(wi.LogPath, n)
	if err != nil {
		h.internalError(w, err)
		return
	}
	h.writeJson(w, "", lines)
}

func (h *Handler) getLog(w http.ResponseWriter, r *http.Request) {
	var last int64
	if tag := r.Header.Get("If-None-Match"); len(tag) > 2 {
		last, _ = strconv.ParseInt(tag[1:len(tag)-1], 16, 64)
	}
	recs, id := h.sv.GetLog(last)
	if recs == nil && last != 0 {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.writeJson(w, serialTag(id), recs)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.r.ServeHTTP(w, req)
}

func NewHandler(sv *streamvisor.Supervisor) *Handler {
	r := mux.NewRouter()
	h := &Handler{sv: sv, r: r}
	r.HandleFunc("/", h.getInfo).Methods("GET")
	r.HandleFunc("/workers", h.listWorkers).Methods("GET")
	r.HandleFunc("/status", h.getStatus).Methods("GET")
	r.HandleFunc("/workers/{worker}", h.getWorker).Methods("GET")
	r.HandleFunc("/workers/{worker}/log", h.getWorkerLog).Methods("GET")
	r.HandleFunc("/log", h.getLog).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(sv.Metrics().Registry,
		promhttp.HandlerOpts{})).Methods("GET")
	return h
}
