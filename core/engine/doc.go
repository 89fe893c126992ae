// Package engine contains the per-rank search: for each offset of a range it
// fans out the mutant vectors, reduces them to scores and folds the best
// candidate. It never imports cluster, app, writers or cli; keep it domain-only.
//
// External outputs must not depend on the internal shape here. Use pkg/api
// for stable wire types.
package engine
