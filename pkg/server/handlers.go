package server

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/treetui/pkg/buildinfo"
	"github.com/matzehuels/treetui/pkg/config"
	terrors "github.com/matzehuels/treetui/pkg/errors"
	tio "github.com/matzehuels/treetui/pkg/io"
	"github.com/matzehuels/treetui/pkg/pipeline"
	"github.com/matzehuels/treetui/pkg/store"
	"github.com/matzehuels/treetui/pkg/tree"
	"github.com/matzehuels/treetui/pkg/treeparse"
)

const maxListLimit = 1000

type treeResponse struct {
	ID        string           `json:"id"`
	Profile   string           `json:"profile"`
	Nodes     int              `json:"nodes"`
	Folded    bool             `json:"folded"`
	CreatedAt time.Time        `json:"created_at"`
	CacheHit  bool             `json:"cache_hit"`
	Stats     *treeparse.Stats `json:"stats,omitempty"`
	Root      *nodeResponse    `json:"root,omitempty"`
}

type nodeResponse struct {
	ID       tree.NodeID     `json:"id"`
	Label    string          `json:"label"`
	Parent   *tree.NodeID    `json:"parent,omitempty"`
	Depth    int             `json:"depth"`
	Ref      *tree.NodeID    `json:"ref,omitempty"`
	Children []childResponse `json:"children"`
}

type childResponse struct {
	ID          tree.NodeID  `json:"id"`
	Label       string       `json:"label"`
	HasChildren bool         `json:"has_children"`
	Ref         *tree.NodeID `json:"ref,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.counters == nil {
		jsonError(w, "counters are disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBody))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(body) == 0 {
		s.writeError(w, r, terrors.New(terrors.ErrCodeInvalidInput, "request body is empty"))
		return
	}

	q := r.URL.Query()
	p, err := s.profileFromQuery(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	refresh, err := boolParam(q, "refresh", false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Parse(r.Context(), body, pipeline.Options{Profile: p, Refresh: refresh})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if q.Has("format") {
		s.writeRendered(w, r, res, q)
		return
	}

	data, err := tio.Marshal(res.Arena, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc := &store.Document{
		Profile:   p.Name,
		InputHash: res.InputHash,
		Nodes:     res.Arena.Len(),
		Tree:      data,
	}
	if res.Folded != nil {
		doc.Marker = res.Folded.Marker()
	}
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/trees/"+doc.ID)
	root := describeNode(res, res.Arena.Root())
	writeJSON(w, http.StatusCreated, treeResponse{
		ID:        doc.ID,
		Profile:   doc.Profile,
		Nodes:     doc.Nodes,
		Folded:    doc.Marker != "",
		CreatedAt: doc.CreatedAt,
		CacheHit:  res.CacheHit,
		Stats:     &res.Stats,
		Root:      &root,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit", DefaultListLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	docs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]treeResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, treeResponse{
			ID:        d.ID,
			Profile:   d.Profile,
			Nodes:     d.Nodes,
			Folded:    d.Marker != "",
			CreatedAt: d.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"trees": out})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeRendered(w, r, res, r.URL.Query())
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	res, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := res.Arena.Root()
	if raw := chi.URLParam(r, "node"); raw != "root" {
		n, err := strconv.Atoi(raw)
		if err != nil || !res.Arena.Contains(tree.NodeID(n)) {
			s.writeError(w, r, terrors.New(terrors.ErrCodeNodeNotFound, "no node %q", raw))
			return
		}
		id = tree.NodeID(n)
	}
	writeJSON(w, http.StatusOK, describeNode(res, id))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := terrors.ValidateTreeID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// load fetches the tree named by the {id} URL parameter.
func (s *Server) load(r *http.Request) (*pipeline.Result, error) {
	id := chi.URLParam(r, "id")
	if err := terrors.ValidateTreeID(id); err != nil {
		return nil, err
	}
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	a, err := tio.Unmarshal(doc.Tree)
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInternal, err, "decode stored tree %s", id)
	}
	res := &pipeline.Result{Arena: a, InputHash: doc.InputHash}
	if doc.Marker != "" {
		res.Folded = tree.Fold(a, doc.Marker)
	}
	return res, nil
}

func (s *Server) writeRendered(w http.ResponseWriter, r *http.Request, res *pipeline.Result, q url.Values) {
	opts := pipeline.RenderOptions{
		Format: q.Get("format"),
		Style:  q.Get("style"),
	}
	if opts.Format == "" {
		opts.Format = pipeline.FormatJSON
	}
	var err error
	if opts.Detailed, err = boolParam(q, "detailed", false); err == nil {
		if opts.Horizontal, err = boolParam(q, "horizontal", false); err == nil {
			opts.MaxLabel, err = intParam(q, "max_label", 0)
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.runner.Render(r.Context(), res, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[opts.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// describeNode reports id as seen through the result's view, so resolved
// duplicate markers list the children of their target.
func describeNode(res *pipeline.Result, id tree.NodeID) nodeResponse {
	view := res.View()
	refs := res.Refs()
	n := nodeResponse{
		ID:       id,
		Label:    view.Label(id),
		Depth:    res.Arena.Depth(id),
		Children: []childResponse{},
	}
	if p, ok := res.Arena.Parent(id); ok {
		n.Parent = &p
	}
	if refs != nil {
		if t, ok := refs.Target(id); ok {
			n.Ref = &t
		}
	}
	for _, c := range view.Children(id) {
		child := childResponse{ID: c, Label: view.Label(c), HasChildren: len(view.Children(c)) > 0}
		if refs != nil {
			if t, ok := refs.Target(c); ok {
				child.Ref = &t
			}
		}
		n.Children = append(n.Children, child)
	}
	return n
}

// profileFromQuery selects a profile and applies the query overrides.
func (s *Server) profileFromQuery(q url.Values) (config.Profile, error) {
	p, err := s.cfg.Profile(q.Get("profile"))
	if err != nil {
		return p, err
	}
	if v := q.Get("pattern"); v != "" {
		p.Pattern = v
	}
	if p.AnchorGroup, err = intParam(q, "anchor", p.AnchorGroup); err != nil {
		return p, err
	}
	if p.DataGroup, err = intParam(q, "data", p.DataGroup); err != nil {
		return p, err
	}
	if p.SkipLines, err = intParam(q, "skip", p.SkipLines); err != nil {
		return p, err
	}
	heading, err := boolParam(q, "heading", !p.NoHeading)
	if err != nil {
		return p, err
	}
	p.NoHeading = !heading
	if p.FoldDuplicates, err = boolParam(q, "fold", p.FoldDuplicates); err != nil {
		return p, err
	}
	if q.Has("marker") {
		p.Marker = q.Get("marker")
		p.FoldDuplicates = true
	}
	return p, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "query parameter %s must be an integer", name)
	}
	return n, nil
}

func boolParam(q url.Values, name string, def bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "query parameter %s must be a boolean", name)
	}
	return b, nil
}
