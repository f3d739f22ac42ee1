/*
Package clock provides the logical time sources used to stamp every write and
delete applied to an LWW element dictionary.

Two implementations are provided. SystemClock uses the wall clock in
milliseconds, VectorClock keeps one counter per replica and orders moments
causally. Both project onto a total order by falling back to the replica id
when two moments are equal or concurrent, unless ordering by id is disabled.

Like the rest of the engine, clocks do not synchronize access themselves. A
clock is owned by exactly one replica.
*/
package clock
