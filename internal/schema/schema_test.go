package schema

import "testing"

func sampleSchema() *Schema {
	s := New()
	s.AddTable(&Table{
		Name: "users",
		Columns: []*Column{
			{Name: "id", Datatype: "INTEGER", Constraints: []string{"PRIMARY KEY"}},
			{Name: "name", Datatype: "TEXT", Constraints: []string{"NOT NULL"}},
		},
	})
	s.AddTable(&Table{
		Name: "posts",
		Columns: []*Column{
			{Name: "id", Datatype: "INTEGER", Constraints: []string{"PRIMARY KEY"}},
			{Name: "author_id", Datatype: "INTEGER"},
		},
		ForeignKeys: []*ForeignKey{
			{LocalName: "author_id", TableName: "users", ExternalName: "id", OnDelete: "CASCADE"},
		},
	})
	return s
}

func TestSchemaValidates(t *testing.T) {
	s := sampleSchema()
	if errs := s.Validate(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestForeignKeyResolves(t *testing.T) {
	s := sampleSchema()
	posts, _ := s.Table("posts")
	fk := posts.ForeignKeys[0]
	if !fk.Resolved() {
		t.Fatal("expected foreign key to resolve")
	}
}

func TestUnknownForeignKeyTargetFlagged(t *testing.T) {
	s := New()
	s.AddTable(&Table{
		Name:    "posts",
		Columns: []*Column{{Name: "id", Datatype: "INTEGER"}},
		ForeignKeys: []*ForeignKey{
			{LocalName: "id", TableName: "ghost", ExternalName: "id"},
		},
	})
	errs := s.Validate()
	if len(errs) == 0 {
		t.Fatal("expected an unknown-name-referenced error")
	}
	found := false
	for _, e := range errs {
		if e.Kind == UnknownNameReferenced {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UnknownNameReferenced error, got %v", errs)
	}
}

func TestCompareEquivalenceIgnoresOrder(t *testing.T) {
	a := sampleSchema()
	b := &Schema{Tables: []*Table{a.Tables[1].Copy(), a.Tables[0].Copy()}}
	b.ResolveForeignKeys()
	if !a.CompareEquivalence(b) {
		t.Fatal("expected schemas with reordered tables to be equivalent")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := sampleSchema()
	data, err := s.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if !s.CompareEquivalence(back) {
		t.Fatal("expected round-tripped schema to be equivalent to original")
	}
}

func TestDuplicateColumnFlagged(t *testing.T) {
	tbl := &Table{
		Name: "t",
		Columns: []*Column{
			{Name: "a", Datatype: "TEXT"},
			{Name: "a", Datatype: "TEXT"},
		},
	}
	s := &Schema{Tables: []*Table{tbl}}
	errs := tbl.Validate(s)
	found := false
	for _, e := range errs {
		if e.Kind == Duplicate {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected duplicate column error, got %v", errs)
	}
}

func TestRecognizesDatatypesCaseInsensitively(t *testing.T) {
	cases := []string{"integer", "INTEGER", "VarChar(255)", "double precision", "Boolean"}
	for _, dt := range cases {
		if !ValidateDatatype(dt) {
			t.Errorf("expected %q to be recognized", dt)
		}
	}
	if ValidateDatatype("NOT_A_TYPE") {
		t.Error("expected NOT_A_TYPE to be rejected")
	}
}
