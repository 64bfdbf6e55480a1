// Package services contains the application facade consumed by the CLI.
//
// AppService aggregates the session store, the entity mirror and the sync
// controller behind one method per user action, plus a single error slot
// and a loading flag for the UI.
package services
