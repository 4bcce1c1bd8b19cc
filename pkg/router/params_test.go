package router

import (
	"errors"
	"reflect"
	"testing"
)

func TestParamDecoder(t *testing.T) {
	type Params struct {
		Name   string   `param:"name"`
		ID     int      `param:"id,required"`
		Count  uint8    `param:"count"`
		Ratio  float64  `param:"ratio"`
		Active bool     `param:"active"`
		Rest   []string `param:"wild"`
		Page   *int     `param:"page"`
		Skip   string   `param:"-"`
		plain  string
	}

	params := map[string]string{
		"name":   "ada",
		"id":     "42",
		"count":  "7",
		"ratio":  "0.5",
		"active": "true",
		"wild":   "a/b/c",
		"page":   "3",
	}

	var p Params
	if err := NewParamDecoder().Decode(params, &p); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if p.Name != "ada" || p.ID != 42 || p.Count != 7 || p.Ratio != 0.5 || !p.Active {
		t.Errorf("decoded %+v", p)
	}
	if !reflect.DeepEqual(p.Rest, []string{"a", "b", "c"}) {
		t.Errorf("Rest = %v, want [a b c]", p.Rest)
	}
	if p.Page == nil || *p.Page != 3 {
		t.Errorf("Page = %v, want 3", p.Page)
	}
}

func TestParamDecoderErrors(t *testing.T) {
	type Required struct {
		ID int `param:"id,required"`
	}
	type Small struct {
		N int8 `param:"n"`
	}

	tests := []struct {
		name   string
		params map[string]string
		target any
	}{
		{"missing required", map[string]string{}, &Required{}},
		{"not an integer", map[string]string{"id": "abc"}, &Required{}},
		{"overflow", map[string]string{"n": "300"}, &Small{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewParamDecoder().Decode(tt.params, tt.target)
			if !errors.Is(err, ErrInvalidParam) {
				t.Errorf("Decode() error = %v, want ErrInvalidParam", err)
			}
		})
	}

	if err := NewParamDecoder().Decode(map[string]string{}, Required{}); err == nil {
		t.Error("expected an error for a non-pointer target")
	}
}

func TestRouteDecodeParams(t *testing.T) {
	r, _ := newTestRouter(t, "/users/12?tab=posts", "")
	user, _ := r.NewRoute(nil, "users/:id", true)

	var params struct {
		ID int `param:"id"`
	}
	if err := user.DecodeParams(&params); err != nil {
		t.Fatalf("DecodeParams() error: %v", err)
	}
	if params.ID != 12 {
		t.Errorf("ID = %d, want 12", params.ID)
	}

	var query struct {
		Tab string `param:"tab"`
	}
	if err := r.DecodeQuery(&query); err != nil {
		t.Fatalf("DecodeQuery() error: %v", err)
	}
	if query.Tab != "posts" {
		t.Errorf("Tab = %q, want %q", query.Tab, "posts")
	}
}
