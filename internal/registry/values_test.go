package registry

import "testing"

func TestValuesOrderAndOverwrite(t *testing.T) {
	vs := NewValues()
	vs.Set("b", DWordValue(1))
	vs.Set("a", DWordValue(2))
	vs.Set("b", DWordValue(3))

	names := vs.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("names: %v", names)
	}
	if v, _ := vs.Get("b"); v.Integer != 3 {
		t.Fatalf("b: %+v", v)
	}
	if _, ok := vs.Get("zz"); ok {
		t.Fatal("missing name should not be found")
	}

	entries := vs.Entries()
	if entries[0].Name != "b" || entries[1].Value.Integer != 2 {
		t.Fatalf("entries: %+v", entries)
	}
}

func TestValuesEachStops(t *testing.T) {
	vs := NewValues()
	for _, n := range []string{"x", "y", "z"} {
		vs.Set(n, StringValue(n))
	}
	var seen []string
	vs.Each(func(name string, _ Value) Outcome {
		seen = append(seen, name)
		if name == "y" {
			return Stop
		}
		return Continue
	})
	if len(seen) != 2 {
		t.Fatalf("seen: %v", seen)
	}
}

func TestValuesEqualAndDigest(t *testing.T) {
	a, b := NewValues(), NewValues()
	a.Set("k", StringValue("v"))
	b.Set("k", StringValue("v"))
	if !a.Equal(b) || a.Digest() != b.Digest() {
		t.Fatal("identical mappings should compare equal")
	}

	b.Set("k", ExpandStringValue("v"))
	if a.Equal(b) {
		t.Fatal("type change should break equality")
	}
	if a.Digest() == b.Digest() {
		t.Fatal("type change should change the digest")
	}

	c := NewValues()
	c.Set("k", StringValue("v"))
	c.Set("j", StringValue("w"))
	d := NewValues()
	d.Set("j", StringValue("w"))
	d.Set("k", StringValue("v"))
	if c.Equal(d) || c.Digest() == d.Digest() {
		t.Fatal("order is part of the mapping")
	}

	if NewValues().Digest() == a.Digest() {
		t.Fatal("empty digest should differ")
	}
}
