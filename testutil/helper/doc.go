// Package helper provides test doubles and arrangement helpers for the mapfacade packages.
package helper
