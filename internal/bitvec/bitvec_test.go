package bitvec

import "testing"

func TestBitmapBasics(t *testing.T) {
	m := NewBitmap(256)
	for _, i := range []uint32{0, 7, 63, 64, 200, 255} {
		m.Set(i)
	}
	if m.Count() != 6 {
		t.Errorf("Count = %d, want 6", m.Count())
	}
	if !m.Test(63) || m.Test(62) {
		t.Error("Test around word boundary failed")
	}
	m.Reset(63)
	if m.Test(63) || m.Count() != 5 {
		t.Error("Reset failed")
	}
}

func TestBitmapOrAnd(t *testing.T) {
	a := NewBitmap(128)
	b := NewBitmap(128)
	a.Set(1)
	a.Set(100)
	b.Set(100)
	b.Set(2)

	u := a.Clone()
	u.Or(b)
	if u.Count() != 3 || !u.Test(1) || !u.Test(2) || !u.Test(100) {
		t.Error("Or wrong")
	}

	i := a.Clone()
	i.And(b)
	if i.Count() != 1 || !i.Test(100) {
		t.Error("And wrong")
	}
}

func TestBitmapEqual(t *testing.T) {
	a := NewBitmap(64)
	b := NewBitmap(64)
	a.Set(5)
	if a.Equal(b) {
		t.Error("unequal bitmaps reported equal")
	}
	b.Set(5)
	if !a.Equal(b) {
		t.Error("equal bitmaps reported unequal")
	}
}

func TestVecGrowAndEqual(t *testing.T) {
	var a, b Vec
	a.Set(3)
	a.Set(700)
	b.Set(3)
	if a.Equal(&b) {
		t.Error("unequal vecs reported equal")
	}
	b.Set(700)
	if !a.Equal(&b) {
		t.Error("equal vecs reported unequal")
	}

	// Trailing zero words must not affect equality or keys.
	var c Vec
	c.Set(3)
	c.Set(700)
	c.Set(1024)
	var d Vec
	d.Set(3)
	d.Set(700)
	if c.Equal(&d) {
		t.Error("vec with extra high bit reported equal")
	}
	var e Vec
	e.Set(1024)
	e.words[len(e.words)-1] = 0 // now only zeros at the top
	e.Set(3)
	e.Set(700)
	if !a.Equal(&e) || a.Key() != e.Key() {
		t.Error("trailing zero words changed equality or key")
	}
}

func TestVecCompare(t *testing.T) {
	var a, b Vec
	a.Set(1)
	b.Set(2)
	if a.Compare(&b) != -1 || b.Compare(&a) != 1 {
		t.Error("Compare ordering wrong")
	}
	var c Vec
	c.Set(1)
	if a.Compare(&c) != 0 {
		t.Error("Compare of equal vecs != 0")
	}
}

func TestVecKeyDistinct(t *testing.T) {
	var a, b Vec
	a.Set(0)
	b.Set(64)
	if a.Key() == b.Key() {
		t.Error("distinct sets share a key")
	}
}
