package erdraw

import (
	"fmt"
	"image"
	"image/color"
	"testing"
)

// glyphWidth is the advance of every character in the fake renderer, so a
// label of n characters measures 6n.
const glyphWidth = 6.0

type drawOp struct {
	kind   string // clear, fill, stroke, path, fillpath, text
	center Vec2
	w, h   float64
	color  Color
	points []Vec2
	style  PathStyle
	text   string
	font   TextStyle
}

// fakeRenderer is an 800x600 canvas whose projector is the plain center-origin
// Y flip and whose draw calls are recorded.
type fakeRenderer struct {
	width, height float64
	ops           []drawOp
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{width: 800, height: 600}
}

func (f *fakeRenderer) Measure(s string, _ TextStyle) TextMetrics {
	w := float64(len(s)) * glyphWidth
	return TextMetrics{Left: w / 2, Right: w / 2}
}

func (f *fakeRenderer) CanvasToSpace(p Vec2) Vec2 {
	return Vec2{p.X - f.width/2, f.height/2 - p.Y}
}

func (f *fakeRenderer) SpaceToCanvas(p Vec2) Vec2 {
	return Vec2{p.X + f.width/2, f.height/2 - p.Y}
}

func (f *fakeRenderer) Size() (float64, float64) { return f.width, f.height }

func (f *fakeRenderer) Clear(c Color) {
	f.ops = append(f.ops, drawOp{kind: "clear", color: c})
}

func (f *fakeRenderer) FillRect(center Vec2, w, h float64, c Color) {
	f.ops = append(f.ops, drawOp{kind: "fill", center: center, w: w, h: h, color: c})
}

func (f *fakeRenderer) StrokeRect(center Vec2, w, h float64) {
	f.ops = append(f.ops, drawOp{kind: "stroke", center: center, w: w, h: h})
}

func (f *fakeRenderer) Path(points []Vec2, style PathStyle) {
	f.ops = append(f.ops, drawOp{kind: "path", points: points, style: style})
}

func (f *fakeRenderer) FillPath(points []Vec2, c Color) {
	f.ops = append(f.ops, drawOp{kind: "fillpath", points: points, color: c})
}

func (f *fakeRenderer) Text(at Vec2, s string, style TextStyle) {
	f.ops = append(f.ops, drawOp{kind: "text", center: at, text: s, font: style})
}

func (f *fakeRenderer) reset() { f.ops = f.ops[:0] }

func (f *fakeRenderer) find(kind string, match func(drawOp) bool) []drawOp {
	var out []drawOp
	for _, op := range f.ops {
		if op.kind == kind && (match == nil || match(op)) {
			out = append(out, op)
		}
	}
	return out
}

// imageRenderer is a fakeRenderer that can be captured.
type imageRenderer struct {
	*fakeRenderer
}

func (r imageRenderer) Image() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	return img
}

// blogScene is the fixture shared by the layout, input and codec tests:
//
//	users(id*, email)     registered first
//	posts(id*, author_id) registered second
//	posts.author_id -> users.id
type blogScene struct {
	scene    *Scene
	r        *fakeRenderer
	users    *Element
	posts    *Element
	usersID  *Element
	email    *Element
	postsID  *Element
	authorID *Element
	ref      *Element
}

func newBlogScene(t *testing.T) *blogScene {
	t.Helper()
	r := newFakeRenderer()
	s, err := NewScene(r)
	if err != nil {
		t.Fatal(err)
	}
	b := &blogScene{scene: s, r: r}
	b.users = s.AddTable("users")
	b.usersID = mustColumn(t, s, b.users, "id", true)
	b.email = mustColumn(t, s, b.users, "email", false)
	b.posts = s.AddTable("posts")
	b.postsID = mustColumn(t, s, b.posts, "id", true)
	b.authorID = mustColumn(t, s, b.posts, "author_id", false)
	b.ref, err = s.AddReference(b.authorID.ID, b.usersID.ID)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func mustColumn(t *testing.T, s *Scene, table *Element, label string, key bool) *Element {
	t.Helper()
	c, err := s.AddColumn(table.ID, label, key)
	if err != nil {
		t.Fatalf("AddColumn(%s, %s): %v", table.Name, label, err)
	}
	return c
}

func vecString(v Vec2) string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
