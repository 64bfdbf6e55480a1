// Package models defines the client-side data models mirrored from the
// SkillSwap backend. Field names follow the client's internal camelCase
// naming; wire-format normalization lives in the client package.
package models
