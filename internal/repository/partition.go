package repository

import (
	"go-esg-platform/pkg/role"
)

// partition describes the storage of one role. Registering a role here is the
// only step needed for account lookups and mutations to reach it.
type partition struct {
	table    string
	required []string
}

var partitions = map[role.Role]partition{
	role.SimpleUser: {table: "simple_users", required: []string{"name"}},
	role.NGO:        {table: "ngo_accounts", required: []string{"organizationName"}},
	role.Corporate:  {table: "corporate_accounts", required: []string{"companyName", "contactPerson"}},
	role.Carbon:     {table: "carbon_accounts", required: []string{"name"}},
	role.Admin:      {table: "admin_accounts", required: []string{"name"}},
}

func lookupPartition(r role.Role) (partition, error) {
	p, ok := partitions[r]
	if !ok {
		return partition{}, role.ErrInvalidRole
	}
	return p, nil
}

// RequiredFields lists the display fields a signup for r must provide.
func RequiredFields(r role.Role) ([]string, error) {
	p, err := lookupPartition(r)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(p.required))
	copy(out, p.required)
	return out, nil
}

// PartitionTables returns the table names of every registered partition.
func PartitionTables() []string {
	tables := make([]string, 0, len(partitions))
	for _, r := range role.All() {
		if p, ok := partitions[r]; ok {
			tables = append(tables, p.table)
		}
	}
	return tables
}

const (
	revokedTokensTable = "revoked_tokens"
	auditEntriesTable  = "audit_entries"
)

// SchemaTables lists every table the repositories read or write.
func SchemaTables() []string {
	return append(PartitionTables(), revokedTokensTable, auditEntriesTable)
}
