package extractive

// stopWords are common Arabic and English words with no standalone meaning.
// Most are filtered by the length rule already; the longer ones matter.
var stopWords = toSet(
	// Arabic
	"في", "من", "إلى", "على", "عن", "مع", "هذا", "هذه", "التي", "الذي", "كان", "كانت",
	"هو", "هي", "هم", "نحن", "أنت", "أنا", "لا", "ما", "هل", "إن", "أن", "كما", "أو",
	"وكذلك", "ولكن", "لأن", "حتى", "قد", "لقد", "كل", "جدا", "فقط", "أيضا", "ثم",
	"لم", "لن", "ليس", "عند", "بعد", "قبل", "عندما", "إذا", "كيف", "لماذا", "ماذا",
	"يمكن", "يجب", "ذلك", "تلك", "الان", "اليوم", "وأن", "وهو", "وهي", "وهم", "وقد",
	// English
	"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could", "should",
	"may", "might", "shall", "must", "can", "to", "of", "in", "on", "at", "by",
	"for", "with", "about", "as", "this", "that", "these", "those", "it", "its",
	"and", "or", "but", "not", "so", "if", "then", "than", "when", "where",
	"how", "what", "which", "who", "just", "also", "very", "more", "some",
	"we", "they", "he", "she", "you", "i", "my", "our", "your", "their", "his", "her",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
