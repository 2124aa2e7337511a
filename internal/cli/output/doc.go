// Package output renders command results as a table, JSON or YAML.
//
// Tables are built from structs and slices of structs using their json
// tags for column names. A field tagged `table:"wide"` only shows in wide
// mode and `table:"-"` never shows.
package output
