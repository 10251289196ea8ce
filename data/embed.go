package data

import (
	_ "embed"
)

// InitdbMariaDBPrivileges creates the least-privileged application account
// used by development and test containers.
//
//go:embed initdb/mariadb/001-privileges.sql
var InitdbMariaDBPrivileges string

// SampleFoodsCSV is a small food catalog in the spreadsheet import layout.
//
//go:embed samples/foods.csv
var SampleFoodsCSV []byte
