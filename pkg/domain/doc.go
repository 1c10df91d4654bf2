/*
Package domain contains the core types shared by the deepwatch packages.

It defines what an observed tree talks about, free of any observation machinery:

  - Path: the root-relative key sequence locating a value.
  - Event: a Changed or Deleted notification tagged with its Path.
  - Kind: the shape of an observed container (record or sequence).
  - Undefined: the "no value" sentinel; writing it deletes.
  - Errors: the sentinel and typed errors surfaced by writes.
  - LifecycleHooks: callbacks for node adoption, release, moves and rejected writes.
*/
package domain
