package erdraw

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogExport = `[
	{"id":0,"type":"REFERENCE","from":1,"to":5},
	{"id":1,"type":"COLUMN","position":[-262,185],"label":"author_id","key":false,"parentId":3},
	{"id":2,"type":"COLUMN","position":[-321,185],"label":"id","key":true,"parentId":3},
	{"id":3,"type":"TABLE","position":[-281,185],"name":"posts"},
	{"id":4,"type":"COLUMN","position":[-274,255],"label":"email","key":false,"parentId":6},
	{"id":5,"type":"COLUMN","position":[-321,255],"label":"id","key":true,"parentId":6},
	{"id":6,"type":"TABLE","position":[-293,255],"name":"users"}
]`

func newEmptyScene(t *testing.T) *Scene {
	t.Helper()
	s, err := NewScene(newFakeRenderer())
	require.NoError(t, err)
	return s
}

func TestExportBlog(t *testing.T) {
	b := newBlogScene(t)
	b.scene.Frame()

	data, err := b.scene.Export()
	require.NoError(t, err)
	assert.JSONEq(t, blogExport, string(data))
}

func TestSerializeSkipsAddButtons(t *testing.T) {
	b := newBlogScene(t)
	records, err := b.scene.Serialize()
	require.NoError(t, err)
	require.Len(t, records, 7)

	for i, rec := range records {
		assert.Equal(t, i, rec.ID, "IDs are dense and ordered")
		assert.Contains(t, []string{RecordTable, RecordColumn, RecordReference}, rec.Type)
	}
}

func TestSerializeEmpty(t *testing.T) {
	data, err := newEmptyScene(t).Export()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestReferenceRecordHasNoPosition(t *testing.T) {
	data, err := json.Marshal(Record{ID: 0, Type: RecordReference, Position: Vec2{1, 2}, From: 3, To: 4})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "position")
	assert.Equal(t, float64(3), raw["from"])
}

func TestMarshalUnknownRecord(t *testing.T) {
	_, err := json.Marshal(Record{Type: "VIEW"})
	assert.ErrorIs(t, err, ErrUnknownRecord)
}

func TestLoadRoundTrip(t *testing.T) {
	s := newEmptyScene(t)
	require.NoError(t, s.Load([]byte(blogExport)))

	d := s.Diagram()
	require.Equal(t, 3, d.Len())
	elems := d.Elements()
	assert.Equal(t, "users", elems[0].Name)
	assert.Equal(t, "posts", elems[1].Name)
	assert.Equal(t, KindReference, elems[2].Kind)

	users := elems[0]
	require.Len(t, users.Columns(), 2)
	assert.Equal(t, "id", d.Element(users.Columns()[0]).Label)
	assert.True(t, d.Element(users.Columns()[0]).Key)
	assert.Equal(t, "email", d.Element(users.Columns()[1]).Label)

	ref := elems[2]
	assert.Equal(t, "author_id", d.Element(ref.From).Label)
	assert.Equal(t, users.Columns()[0], ref.To)

	data, err := s.Export()
	require.NoError(t, err)
	assert.JSONEq(t, blogExport, string(data), "export before any frame keeps loaded positions")

	s.Frame()
	data, err = s.Export()
	require.NoError(t, err)
	assert.JSONEq(t, blogExport, string(data))
}

func TestLoadAnyOrder(t *testing.T) {
	var records []Record
	require.NoError(t, json.Unmarshal([]byte(blogExport), &records))
	slices.Reverse(records)
	records[0], records[3] = records[3], records[0]

	s := newEmptyScene(t)
	require.NoError(t, s.LoadRecords(records))
	s.Frame()

	data, err := s.Export()
	require.NoError(t, err)
	assert.JSONEq(t, blogExport, string(data))
}

func TestLoadColumnBeforeTable(t *testing.T) {
	s := newEmptyScene(t)
	err := s.Load([]byte(`[
		{"id":0,"type":"TABLE","position":[0,0],"name":"nodes"},
		{"id":1,"type":"COLUMN","position":[0,0],"label":"parent_id","key":false,"parentId":0},
		{"id":2,"type":"COLUMN","position":[0,0],"label":"id","key":true,"parentId":0},
		{"id":5,"type":"REFERENCE","from":1,"to":2}
	]`))
	require.NoError(t, err)

	d := s.Diagram()
	require.Len(t, d.Tables(), 1)
	require.Len(t, d.References(), 1)
	nodes := d.Element(d.Tables()[0])
	assert.Len(t, nodes.Columns(), 2)

	ref := d.Element(d.References()[0])
	assert.True(t, ref.Recursive())
	assert.Equal(t, "parent_id", d.Element(ref.From).Label)
	assert.Equal(t, "id", d.Element(ref.To).Label)
}

func TestLoadAppends(t *testing.T) {
	b := newBlogScene(t)
	require.NoError(t, b.scene.Load([]byte(`[{"id":0,"type":"TABLE","position":[0,0],"name":"tags"}]`)))

	d := b.scene.Diagram()
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 2, d.TableRank(d.Elements()[3].ID))
}

func TestLoadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{
			"unknown type",
			`[{"id":0,"type":"TABLE","name":"t"},{"id":1,"type":"VIEW"}]`,
			ErrUnknownRecord,
		},
		{
			"missing parent",
			`[{"id":0,"type":"TABLE","name":"t"},{"id":1,"type":"COLUMN","label":"a","parentId":9}]`,
			ErrDanglingID,
		},
		{
			"parentId omitted",
			`[{"id":0,"type":"TABLE","name":"t"},{"id":1,"type":"COLUMN","label":"a"}]`,
			ErrDanglingID,
		},
		{
			"id omitted",
			`[{"type":"TABLE","name":"t"}]`,
			ErrDanglingID,
		},
		{
			"column parent is a column",
			`[{"id":0,"type":"TABLE","name":"t"},{"id":1,"type":"COLUMN","label":"a","parentId":0},{"id":2,"type":"COLUMN","label":"b","parentId":1}]`,
			ErrRecordType,
		},
		{
			"reference to a table",
			`[{"id":0,"type":"TABLE","name":"t"},{"id":1,"type":"COLUMN","label":"a","parentId":0},{"id":2,"type":"REFERENCE","from":1,"to":0}]`,
			ErrRecordType,
		},
		{
			"reference to a missing column",
			`[{"id":0,"type":"TABLE","name":"t"},{"id":1,"type":"COLUMN","label":"a","parentId":0},{"id":2,"type":"REFERENCE","from":1,"to":7}]`,
			ErrDanglingID,
		},
		{
			"duplicate id",
			`[{"id":0,"type":"TABLE","name":"t"},{"id":0,"type":"TABLE","name":"u"}]`,
			ErrDuplicateID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newEmptyScene(t)
			err := s.Load([]byte(tt.json))
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, s.Diagram().Len())
			assert.Empty(t, s.Diagram().elements, "nothing created on failure")
		})
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	s := newEmptyScene(t)
	err := s.Load([]byte(`{"id":0}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "erdraw: load")
	assert.Equal(t, 0, s.Diagram().Len())
}
