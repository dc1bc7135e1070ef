// Package erdraw is the layout, routing and hit-testing core of an
// entity-relationship diagram editor.
//
// A [Scene] owns a [Diagram] of tables, columns and references, the pointer
// state and the event handlers. Every call to [Scene.Frame] recomputes the
// layout from structure alone, refreshes the selection and draws through a
// [Renderer]. Drawing surfaces live in separate packages: erdraw/ebitenhost
// opens an interactive window, erdraw/ggrender rasterizes to PNG and
// erdraw/svgrender writes SVG.
//
// # Quick start
//
//	scene, err := erdraw.NewScene(renderer)
//	if err != nil {
//		return err
//	}
//	users := scene.AddTable("users")
//	id, _ := scene.AddColumn(users.ID, "id", true)
//	posts := scene.AddTable("posts")
//	author, _ := scene.AddColumn(posts.ID, "author_id", false)
//	scene.AddReference(author.ID, id.ID)
//	scene.Frame()
//
// # Coordinates
//
// Diagram space has its origin at the canvas center with Y growing upward.
// Canvas space has its origin at the top-left with Y growing downward.
// Renderers convert between the two; [Camera] provides a ready-made
// [Projector] with pan, zoom and a tweened [Camera.ScrollTo] (via [gween]).
//
// # Layout
//
// Tables stack top to bottom in the order they were added, shifted right by
// one [ReferenceSpacing] per non-recursive reference so every reference gets
// its own vertical lane in the left margin. Columns pack left to right. The
// same structure always produces the same geometry.
//
// # Interaction
//
// Hosts forward pointer input through [Scene.PointerEnter],
// [Scene.PointerMove], [Scene.PointerDown], [Scene.PointerUp],
// [Scene.DoubleClick] and [Scene.PointerLeave]. The topmost element under
// the pointer becomes the selection; releasing the button over it fires
// [Scene.OnElementClicked] handlers, releasing over the background fires
// [Scene.OnClick].
//
// # Persistence
//
// [Scene.Export] and [Scene.Load] use a JSON array of records with dense
// integer IDs. Loading is all-or-nothing.
//
// [gween]: https://github.com/tanema/gween
package erdraw
