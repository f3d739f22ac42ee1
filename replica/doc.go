/*
Package replica wraps one LWW element dictionary together
with its clock into a replica of a distributed system.

A Replica serializes access to its dictionary and takes care
of the clock events required for replication: local writes
produce operations to broadcast, operations received from
other replicas are applied only after the local clock has
caught up with the sender's clock, and full states can be
exported and merged.
*/
package replica
