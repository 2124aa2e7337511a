// Package domain defines the AAA state replicated between AAAMesh nodes.
//
// Session and Claim are value objects whose attributes are all nullable:
// a nil field means "not set", which lets a partial object act as a patch
// (see Session.Merge). Only ID is mandatory. Values carry no IO
// dependencies; encoding lives in the service package.
package domain
