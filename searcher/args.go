package searcher

// Terminal scores, always from the maximizer's perspective. Depth is not
// taken into account: equal scores are resolved by ascending cell index.

const WinScore = 10
const LossScore = -WinScore
const DrawScore = 0
