package urlparam

import (
	"reflect"
	"testing"

	"github.com/vango-dev/vroute/pkg/reactive"
	"github.com/vango-dev/vroute/pkg/router"
)

func newTestRouter(t *testing.T, initial string) *router.Router {
	t.Helper()

	var (
		r   *router.Router
		err error
	)
	root := reactive.Root(func(owner *reactive.Owner) {
		r, err = router.New(router.NewIntegration(initial), "")
	})
	t.Cleanup(root.Dispose)
	if err != nil {
		t.Fatalf("router.New() error: %v", err)
	}
	return r
}

func TestParamDefaultEncoding(t *testing.T) {
	r := newTestRouter(t, "/list?page=3&q=go")
	page := New(r, "page", 1)

	if got := page.Get(); got != 3 {
		t.Errorf("Get() = %d, want 3", got)
	}

	if err := page.Set(5); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := r.Reference(); got != "/list?page=5&q=go" {
		t.Errorf("Reference() = %q, want %q", got, "/list?page=5&q=go")
	}
	if got := page.Get(); got != 5 {
		t.Errorf("Get() after Set = %d, want 5", got)
	}

	if err := page.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if got := r.Reference(); got != "/list?q=go" {
		t.Errorf("Reference() after Reset = %q, want %q", got, "/list?q=go")
	}
	if got := page.Get(); got != 1 {
		t.Errorf("Get() after Reset = %d, want default 1", got)
	}
}

func TestParamInvalidValueReadsDefault(t *testing.T) {
	r := newTestRouter(t, "/list?page=abc")
	page := New(r, "page", 1)

	if got := page.Get(); got != 1 {
		t.Errorf("Get() = %d, want default 1", got)
	}
}

func TestParamEscaping(t *testing.T) {
	r := newTestRouter(t, "/search")
	q := New(r, "Q", "", Replace)

	if err := q.Set("go & rust"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := r.Reference(); got != "/search?q=go+%26+rust" {
		t.Errorf("Reference() = %q", got)
	}
	if got := q.Get(); got != "go & rust" {
		t.Errorf("Get() = %q, want %q", got, "go & rust")
	}
}

func TestParamFlatEncoding(t *testing.T) {
	type Filters struct {
		Category string `url:"cat"`
		Sort     string `url:"sort"`
		Limit    int
		internal string
	}

	r := newTestRouter(t, "/posts?cat=tech&limit=20")
	filters := New(r, "", Filters{Sort: "new"}, WithEncoding(EncodingFlat))

	want := Filters{Category: "tech", Sort: "new", Limit: 20}
	if got := filters.Get(); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}

	if err := filters.Set(Filters{Category: "go", Sort: "top"}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := r.Reference(); got != "/posts?cat=go&sort=top" {
		t.Errorf("Reference() = %q, want %q", got, "/posts?cat=go&sort=top")
	}
}

func TestParamCommaEncoding(t *testing.T) {
	r := newTestRouter(t, "/posts?tags=go,web")
	tags := New(r, "tags", []string{}, WithEncoding(EncodingComma))

	if got := tags.Get(); !reflect.DeepEqual(got, []string{"go", "web"}) {
		t.Errorf("Get() = %v, want [go web]", got)
	}

	if err := tags.Update(func(v []string) []string { return append(v, "api") }); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if got := tags.Get(); !reflect.DeepEqual(got, []string{"go", "web", "api"}) {
		t.Errorf("Get() after Update = %v", got)
	}

	if err := tags.Set(nil); err != nil {
		t.Fatalf("Set(nil) error: %v", err)
	}
	if got := r.Reference(); got != "/posts" {
		t.Errorf("Reference() = %q, want %q", got, "/posts")
	}
}

func TestParamJSONEncoding(t *testing.T) {
	type Range struct {
		From int `json:"from"`
		To   int `json:"to"`
	}

	r := newTestRouter(t, "/stats")
	rng := New(r, "range", Range{}, WithEncoding(EncodingJSON))

	if err := rng.Set(Range{From: 1, To: 9}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := rng.Get(); got != (Range{From: 1, To: 9}) {
		t.Errorf("Get() = %+v", got)
	}
	if r.Location().QueryString == "" {
		t.Error("query string empty after Set")
	}
}

func TestParamReactivity(t *testing.T) {
	r := newTestRouter(t, "/list?page=1&q=a")
	page := New(r, "page", 0)

	var seen []int
	r.Run(func() {
		reactive.CreateEffect(func() reactive.Cleanup {
			seen = append(seen, page.Get())
			return nil
		})
	})

	r.Push("/list?page=1&q=b")
	r.Push("/list?page=2&q=b")

	if !reflect.DeepEqual(seen, []int{1, 2}) {
		t.Errorf("effect saw %v, want [1 2]", seen)
	}
}

func TestNavigateModes(t *testing.T) {
	var updates []router.RouteUpdate
	var (
		r   *router.Router
		err error
	)
	current := "/a?x=1"
	root := reactive.Root(func(owner *reactive.Owner) {
		integration := router.CreateIntegration(
			func() string { return current },
			func(u router.RouteUpdate) {
				current = u.Value
				updates = append(updates, u)
			},
			nil,
			router.Utils{},
		)
		r, err = router.New(integration, "")
	})
	defer root.Dispose()
	if err != nil {
		t.Fatal(err)
	}

	if err := Navigate(r, map[string]string{"Y": "2"}, ModeReplace); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	if err := Navigate(r, map[string]string{"x": ""}, ModePush); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}

	want := []router.RouteUpdate{
		{Value: "/a?x=1&y=2", Mode: router.ModeReplace},
		{Value: "/a?y=2", Mode: router.ModePush},
	}
	if !reflect.DeepEqual(updates, want) {
		t.Errorf("updates = %+v, want %+v", updates, want)
	}
}
