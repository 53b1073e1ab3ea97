package schema

// TrackingTableName is the autogenerated table this tool stamps into
// every schema it manages, recording which migration index produced it.
const TrackingTableName = "MIGRATIONS_TRACKING_AUTOGEN"

// NewTrackingTable builds the MIGRATIONS_TRACKING_AUTOGEN table, matching
// MIGRATIONS_TABLE in the original tool: an autoincrementing ID, the
// migration version that was last applied, and its name.
func NewTrackingTable() *Table {
	return &Table{
		Name: TrackingTableName,
		Columns: []*Column{
			{Name: "ID", Datatype: "INTEGER", Constraints: []string{"PRIMARY KEY AUTOINCREMENT", "DEFAULT 0"}},
			{Name: "Version", Datatype: "VARCHAR(255)", Constraints: []string{"NOT NULL"}},
			{Name: "Name", Datatype: "VARCHAR(255)", Constraints: []string{"NULL"}},
		},
	}
}
