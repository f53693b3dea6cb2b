// Package jobs persists job records in SQLite and defines the status and
// creator vocabularies shared by the status handler and the notification
// collaborators.
//
// The record store is externally owned data from the watcher's perspective:
// the pipeline registers jobs (creator kind and card reference), and the
// watcher only reads creator info and writes status transitions.
package jobs
