package tree

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-cms-layout/internal/content"
	"github.com/goliatone/go-cms-layout/internal/layoutdoc"
	"github.com/goliatone/go-cms-layout/internal/markup"
	"github.com/goliatone/go-cms-layout/internal/registry"
	"github.com/goliatone/go-cms-layout/internal/wrappers"
)

// Content is the leaf node. It owns at most one content instance and an
// optional wrapper and skin.
type Content struct {
	base
	instance *content.Instance
	wrapper  string
	skin     string
	// history caches one instance per content type for the editing session.
	history map[string]*content.Instance
	pending bool
	// pendingKey is the storage key the node was hydrated with. It stands in
	// for the instance in the layout until a fetch resolves it.
	pendingKey string
}

func newContent(b *Block, view *html.Node) *Content {
	c := &Content{}
	c.init(c, KindContent, b, view)
	return c
}

func (c *Content) ChildKind() Kind { return "" }

// CreateChild always fails: content is a leaf.
func (c *Content) CreateChild(_ *html.Node, _ Seed) (Node, error) {
	return nil, unsupportedChild(KindContent)
}

func (c *Content) Instance() *content.Instance { return c.instance }
func (c *Content) Wrapper() string             { return c.wrapper }
func (c *Content) Skin() string                { return c.skin }

// Pending reports whether a fetch for this node is in flight.
func (c *Content) Pending() bool { return c.pending }

// PendingKey returns the storage key awaiting resolution, if any.
func (c *Content) PendingKey() string { return c.pendingKey }

// Render hydrates the node from the data attributes of its markup.
func (c *Content) Render() error {
	if c.state != StateConstructed {
		return nil
	}
	c.markRendered()
	c.hydrateMarkup()
	return nil
}

func (c *Content) hydrateMarkup() {
	fields := map[string]any{}
	for _, attr := range markup.Data(c.view) {
		if key, ok := strings.CutPrefix(attr.Key, jsonAttrPrefix); ok {
			var value any
			if err := json.Unmarshal([]byte(attr.Val), &value); err != nil {
				c.log().warn(c, "content.field.decode", err, "field", key)
				continue
			}
			fields[key] = value
			continue
		}
		fields[attr.Key] = attr.Val
	}
	for _, n := range markup.Outermost(c.view, func(n *html.Node) bool {
		_, ok := markup.Attr(n, "data-field")
		return ok && n != c.view
	}) {
		name := markup.GetAttr(n, "data-field")
		if value, ok := markup.Attr(n, "data-value"); ok {
			fields[name] = value
			continue
		}
		fields[name] = markup.InnerHTML(n)
	}
	delete(fields, "field")

	name, _ := fields[content.FieldContentType].(string)
	c.wrapper, _ = fields[content.FieldWrapper].(string)
	c.skin, _ = fields[content.FieldSkin].(string)
	if strings.TrimSpace(name) == "" {
		return
	}
	t, err := c.page.env.ContentTypes.Lookup(name)
	if err != nil {
		c.log().warn(c, "content.type.unknown", err)
		return
	}
	if t.Persistent() {
		id, _ := fields[content.FieldID].(string)
		if id != "" && fields[content.FieldTitle] == nil && c.page.env.Fetcher != nil {
			c.fetch(context.Background(), t.Name(), id)
			return
		}
	}
	c.set(t.New(fields), false)
}

// hydrateLeaf restores the node from a layout document entry. Keys are
// resolved through the fetcher; the node stays empty until that completes.
func (c *Content) hydrateLeaf(ctx context.Context, leaf *layoutdoc.ContentLayout) {
	c.wrapper = leaf.Wrapper
	c.skin = leaf.Skin
	ref := leaf.Content
	switch {
	case ref.IsKey():
		c.fetch(ctx, "", ref.Key)
	case ref.IsZero():
		c.renderInstance()
	default:
		t, err := c.page.env.ContentTypes.Lookup(ref.ContentType())
		if err != nil {
			c.log().warn(c, "content.type.unknown", err)
			return
		}
		c.set(t.New(ref.Fields), false)
	}
}

func (c *Content) fetch(ctx context.Context, contentType, key string) {
	env := c.page.env
	c.pendingKey = key
	if env.Fetcher == nil {
		c.log().warn(c, "content.fetch.unavailable", nil, "key", key)
		return
	}
	c.pending = true
	env.Loop.Go(func() func() {
		fields, err := env.Fetcher.Fetch(ctx, contentType, key)
		return func() {
			c.pending = false
			if !c.Live() || c.pendingKey != key {
				return
			}
			if err != nil {
				c.log().warn(c, "content.fetch.failed", err, "key", key)
				return
			}
			name, _ := fields[content.FieldContentType].(string)
			if name == "" {
				name = contentType
			}
			t, err := env.ContentTypes.Lookup(name)
			if err != nil {
				c.log().warn(c, "content.type.unknown", err, "key", key)
				return
			}
			inst := t.New(fields)
			inst.SetID(key)
			c.set(inst, false)
		}
	})
}

// set installs inst, re-renders and, when sync is true, hands the node to
// the sync coordinator.
func (c *Content) set(inst *content.Instance, sync bool) {
	c.instance = inst
	c.pendingKey = ""
	if c.history != nil && inst != nil {
		c.history[inst.TypeName()] = inst
	}
	c.renderInstance()
	if !sync {
		return
	}
	c.page.markDirty()
	if c.page.env.Syncer == nil {
		c.log().warn(c, "content.sync.unavailable", nil)
		return
	}
	c.page.env.Syncer.SyncContent(c)
}

// EnterEdit arms the node and opens its content history.
func (c *Content) EnterEdit() {
	if c.state == StateEditing {
		return
	}
	c.armChildren()
	c.history = map[string]*content.Instance{}
	if c.instance != nil {
		c.history[c.instance.TypeName()] = c.instance
	}
}

// ChangeContentType switches the node to the named type, restoring the
// instance last used for it in this session. An empty name clears the node.
func (c *Content) ChangeContentType(name string) error {
	if err := c.requireEditing(); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		c.instance = nil
		c.pendingKey = ""
		c.renderInstance()
		c.page.markDirty()
		return nil
	}
	inst, err := c.resolveInstance(name)
	if err != nil {
		return err
	}
	if inst == c.instance {
		return nil
	}
	c.set(inst, false)
	c.page.markDirty()
	c.log().debug(c, "content.type.changed", "content_type", inst.TypeName())
	return nil
}

// SubmitFields applies a submitted form. The content type, wrapper and skin
// entries select what the node holds; the remaining fields are validated
// against the selected type and stored, then the node is synced. Nothing
// changes when any part of the submission is rejected.
func (c *Content) SubmitFields(fields map[string]any) error {
	if err := c.requireEditing(); err != nil {
		return err
	}
	target := c.instance
	if name, ok := fields[content.FieldContentType].(string); ok {
		inst, err := c.resolveInstance(name)
		if err != nil {
			return err
		}
		target = inst
	}
	if target == nil {
		return ErrNoContent
	}
	wrapper := c.wrapper
	if name, ok := fields[content.FieldWrapper].(string); ok {
		w, err := c.resolveWrapper(name)
		if err != nil {
			return err
		}
		wrapper = w
	}
	skin := c.skin
	if name, ok := fields[content.FieldSkin].(string); ok {
		s, err := c.resolveSkin(name)
		if err != nil {
			return err
		}
		skin = s
	}

	merged := target.Fields()
	for key, value := range fields {
		switch key {
		case content.FieldContentType, content.FieldWrapper, content.FieldSkin:
		default:
			merged[key] = value
		}
	}
	if v := c.page.env.Validator; v != nil {
		if err := v.Validate(target.Type(), merged); err != nil {
			err = invalidFields(err)
			c.log().warn(c, "content.fields.rejected", err, "content_type", target.TypeName())
			return err
		}
	}

	if target != c.instance {
		c.log().debug(c, "content.type.changed", "content_type", target.TypeName())
	}
	c.wrapper = wrapper
	c.skin = skin
	target.Update(fields)
	c.set(target, true)
	return nil
}

// resolveInstance returns the instance the node would hold after switching
// to the named type, without installing it.
func (c *Content) resolveInstance(name string) (*content.Instance, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	t, err := c.page.env.ContentTypes.Lookup(name)
	if err != nil {
		c.log().warn(c, "content.type.unknown", err)
		return nil, err
	}
	if c.instance != nil && c.instance.Type() == t {
		return c.instance, nil
	}
	if inst, ok := c.history[t.Name()]; ok {
		return inst, nil
	}
	return t.New(nil), nil
}

func (c *Content) resolveWrapper(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	w, err := c.page.env.Wrappers.Lookup(name)
	if err != nil {
		c.log().warn(c, "wrapper.unknown", err)
		return "", err
	}
	return w.Name(), nil
}

func (c *Content) resolveSkin(skin string) (string, error) {
	skin = strings.TrimSpace(skin)
	if skin != "" && len(c.page.env.Skins) > 0 && !slices.Contains(c.page.env.Skins, skin) {
		err := &registry.NotFoundError{Kind: "skin", Name: skin}
		c.log().warn(c, "skin.unknown", err)
		return "", err
	}
	return skin, nil
}

// SetWrapper selects the wrapper by name. An empty name removes it.
func (c *Content) SetWrapper(name string) error {
	if err := c.requireEditing(); err != nil {
		return err
	}
	name, err := c.resolveWrapper(name)
	if err != nil {
		return err
	}
	c.wrapper = name
	c.renderInstance()
	c.page.markDirty()
	return nil
}

// SetSkin selects the skin. When the environment lists skins, only those
// are accepted.
func (c *Content) SetSkin(skin string) error {
	if err := c.requireEditing(); err != nil {
		return err
	}
	skin, err := c.resolveSkin(skin)
	if err != nil {
		return err
	}
	c.skin = skin
	c.renderInstance()
	c.page.markDirty()
	return nil
}

// Refresh re-renders the node from its current instance.
func (c *Content) Refresh() {
	c.renderInstance()
}

// jsonAttrPrefix marks data attributes carrying a JSON encoded field value.
// HTML folds attribute names to lower case, so transient field names are
// expected to be lower snake_case to survive a markup round trip.
const jsonAttrPrefix = "json-"

// renderInstance rewrites the node markup: annotations first, then the
// content through its wrapper.
func (c *Content) renderInstance() {
	markup.Clear(c.view)
	for _, attr := range markup.Data(c.view) {
		markup.RemoveAttr(c.view, "data-"+attr.Key)
	}
	inst := c.instance
	if inst == nil {
		return
	}
	markup.SetAttr(c.view, "data-"+content.FieldContentType, inst.TypeName())
	if c.wrapper != "" {
		markup.SetAttr(c.view, "data-"+content.FieldWrapper, c.wrapper)
	}
	if c.skin != "" {
		markup.SetAttr(c.view, "data-"+content.FieldSkin, c.skin)
	}
	if inst.Persistent() {
		if id := inst.ID(); id != "" {
			markup.SetAttr(c.view, "data-"+content.FieldID, id)
		}
	} else {
		fields := inst.Fields()
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			switch value := fields[key].(type) {
			case nil:
			case string:
				markup.SetAttr(c.view, "data-"+key, value)
			default:
				raw, err := json.Marshal(value)
				if err != nil {
					c.log().warn(c, "content.field.encode", err, "field", key)
					continue
				}
				markup.SetAttr(c.view, "data-"+jsonAttrPrefix+key, string(raw))
			}
		}
	}

	var err error
	if w := c.lookupWrapper(); w != nil {
		err = w.Render(c.view, wrappers.View{
			Title: inst.Title(),
			Skin:  c.skin,
			Render: func(container *html.Node) error {
				return inst.Render(container, c.skin)
			},
		})
	} else {
		err = inst.Render(c.view, c.skin)
	}
	if err != nil {
		c.log().warn(c, "content.render.failed", err, "content_type", inst.TypeName())
	}
}

func (c *Content) lookupWrapper() *wrappers.Wrapper {
	if c.wrapper == "" {
		return nil
	}
	w, err := c.page.env.Wrappers.Lookup(c.wrapper)
	if err != nil {
		c.log().debug(c, "wrapper.unknown", "wrapper", c.wrapper)
		return nil
	}
	return w
}

// Layout returns the leaf fragment, or nil when the node holds no content
// or a persistent instance without a key. An unresolved storage key is kept
// as is.
func (c *Content) Layout() *layoutdoc.ContentLayout {
	if c.instance == nil {
		if c.pendingKey == "" {
			return nil
		}
		return &layoutdoc.ContentLayout{Content: layoutdoc.KeyRef(c.pendingKey), Skin: c.skin, Wrapper: c.wrapper}
	}
	ref, ok := c.instance.Serialize()
	if !ok {
		return nil
	}
	return &layoutdoc.ContentLayout{Content: ref, Skin: c.skin, Wrapper: c.wrapper}
}

func (c *Content) LayoutFragment() any {
	if layout := c.Layout(); layout != nil {
		return layout
	}
	return nil
}
