// Package entity defines live entity references and their detached state
// snapshots.
//
// An Entity denotes one specific instance inside one Extent. It cannot be
// copied as a value; State produces a BaseEntity that can. Optional
// behaviour, such as scheduling work on the entity's owning world, is
// exposed through separate capability interfaces that callers probe for.
package entity
