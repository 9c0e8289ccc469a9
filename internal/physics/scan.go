package physics

// ScanCapsule tests the capsule against every triangle without a tree.
// It reports the same deepest depth as Index.CapsuleIntersect; on exact
// ties the normal may differ because the visiting order does.
func ScanCapsule(triangles []Triangle, c Capsule) (Contact, bool) {
	c.mustBeFinite()

	var best Contact
	hit := false
	for _, tri := range triangles {
		if tri.Degenerate() {
			continue
		}
		contact, ok := triangleCapsuleContact(tri, c)
		if !ok {
			continue
		}
		if !hit || contact.Depth > best.Depth {
			best = contact
			hit = true
		}
	}
	return best, hit
}
