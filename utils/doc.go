// Package utils holds the structural equality and deep
// copy helpers used to compare and snapshot dictionary
// state independently of the concrete value types stored.
package utils
