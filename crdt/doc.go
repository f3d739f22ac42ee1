/*
Package crdt implements the state- and operation-based Last-Write-Wins element
dictionary (LWW-Element-Dict) upon which replicas of lwwdict are built.

A dictionary owns an add-set and a remove-set, both keyed by element key and
holding clock-stamped items. Writes to either set are accepted unless the item
already stored at that key is strictly newer. An element is present if its
add-set item is newer than its remove-set item. Equal stamps are resolved by
the bias configured for the dictionary, which has to be identical on every
replica for replicas to converge.

CAUTION! Consider these two requirements:
* For operation-based replication, the receiving replica has to Tock its clock
  with the sender's clock literal before replaying an item via AddItem or
  RemoveItem. Package replica does this for you.
* Access to a Dict is expected to be synchronized by its owner. This package
  does not(!) synchronize access by itself.
*/
package crdt
