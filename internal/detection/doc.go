// Package detection locates clock hands in a binary silhouette and turns their
// angles into a time of day.
//
// # Algorithm Overview
//
// Detection runs in four steps:
//
//  1. Radial scan (FindLine): for every angle of a uniform 360 degree sweep,
//     walk outward from the dial center and count the pixels that exactly match
//     the hand color. Each angle yields one MatchCandidate.
//  2. Selection (SelectBestHands): rank candidates by score and greedily keep
//     the strongest ones that are at least MinSeparationDeg apart, so that one
//     physical hand is never counted twice.
//  3. Role assignment (AssignRoles): order the three hands by length. The
//     shortest is the hour hand, the longest is the second hand.
//  4. Conversion (HandsToTime): map the three angles to hours, minutes,
//     seconds and milliseconds.
//
// # Angles
//
// Angles are in degrees in [0, 360), measured clockwise from 12 o'clock. The
// conversion to pixels is imaging.PolarToCartesian with imaging.DialOffsetDeg.
//
// # Performance Considerations
//
// The scan costs O(360/step * (maxRadius - minRadius)) pixel reads and
// dominates the pipeline. The sweep is split across CPUs, trigonometry is
// evaluated once per angle, and *image.Gray silhouettes are read straight from
// their pixel buffer.
//
// # Errors
//
// SelectBestHands returns an error wrapping ErrDetection when fewer than the
// requested number of separated hands exist. Callers must treat it as a failed
// reading rather than substituting default angles.
package detection
