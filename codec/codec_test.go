package codec

import (
	"errors"
	"reflect"
	"testing"
)

type sample struct {
	Name   string
	Scores []float64
	Tags   map[string]int
}

func TestCodecs_RoundTrip(t *testing.T) {
	in := sample{
		Name:   "tokenize",
		Scores: []float64{0.25, 1.5},
		Tags:   map[string]int{"a": 1, "b": 2},
	}

	for _, c := range []Codec{MsgpackCodec{}, JSONCodec{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Encode(in)
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			var out sample
			if err := c.Decode(data, &out); err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Errorf("round trip = %+v, want %+v", out, in)
			}
			if c.Extension() == "" {
				t.Error("Extension() is empty")
			}
		})
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"msgpack", "json"} {
		c, err := Lookup(name)
		if err != nil {
			t.Errorf("Lookup(%q) error: %v", name, err)
			continue
		}
		if c.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, c.Name())
		}
	}

	if _, err := Lookup("pickle"); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("Lookup(unknown) error = %v, want ErrUnknownCodec", err)
	}
}

func TestJSONCodec_Unencodable(t *testing.T) {
	if _, err := (JSONCodec{}).Encode(func() {}); err == nil {
		t.Error("Encode(func) should fail")
	}
}
