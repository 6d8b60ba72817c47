package movies

// Cypher query text for the recommendation core. All queries use named
// parameters; query text is never built from user input.
//
// Traversal fetches candidate rows together with the evidence needed for
// local aggregation (shared intermediate nodes, similar-user ids); scoring,
// dedup, ranking and limiting happen in Go.

const createLikeQuery = `
	MATCH (movie:Movie {external_id: $movie_external_id})
	MERGE (user:User {external_id: $user_external_id})
	MERGE (user)-[liked:LIKED]->(movie)
	ON CREATE SET liked.at = $liked_at
	RETURN user.external_id AS user_id,
		liked.at AS liked_at,
		movie.external_id AS movie_id
`

const deleteLikeQuery = `
	MATCH (user:User)-[liked:LIKED]->(movie:Movie)
	WHERE user.external_id = $user_external_id AND movie.external_id = $movie_external_id
	DELETE liked
`

const likedMoviesQuery = `
	MATCH (user:User {external_id: $user_external_id})-[liked:LIKED]->(movie:Movie)
	RETURN movie.external_id AS external_id, movie.title AS title
	ORDER BY liked.at DESC
`

const recentLikedMoviesQuery = `
	MATCH (user:User {external_id: $user_external_id})-[liked:LIKED]->(movie:Movie)
	RETURN movie.external_id AS external_id
	ORDER BY liked.at DESC
	LIMIT $window
`

// Two-hop walk from the anchor movie through any shared relationship node to
// other movies. The anchor can be reached back through a shared node, so it
// is excluded here; callers exclude the wider already-liked set themselves.
const similarMoviesQuery = `
	MATCH (movie:Movie {external_id: $movie_external_id})
		-[:ACTED_IN|WROTE|DIRECTED|PRODUCED|IN_GENRE|IN_COUNTRY]-(shared)
		-[:ACTED_IN|WROTE|DIRECTED|PRODUCED|IN_GENRE|IN_COUNTRY]-(candidate:Movie)
	WHERE candidate.external_id <> $movie_external_id
	RETURN candidate.external_id AS external_id,
		candidate.title AS title,
		collect(DISTINCT {kind: labels(shared)[0], name: shared.name}) AS shared
`

// One row per (candidate, similar user) pair; the distinct-similar-user
// count is aggregated locally.
const collaborativeQuery = `
	CALL {
		MATCH (user:User {external_id: $user_external_id})-[liked:LIKED]->(recent:Movie)
		RETURN user, recent
		ORDER BY liked.at DESC
		LIMIT $window
	}
	MATCH (recent)<-[:LIKED]-(similar:User)-[:LIKED]->(candidate:Movie)
	WHERE similar.external_id <> $user_external_id
		AND NOT (user)-[:LIKED]->(candidate)
	RETURN candidate.external_id AS external_id,
		candidate.title AS title,
		similar.external_id AS similar_user
`

const getMovieQuery = `
	MATCH (movie:Movie {external_id: $movie_external_id})
	OPTIONAL MATCH (movie)<-[:ACTED_IN]-(actor:Actor)
	OPTIONAL MATCH (movie)<-[:WROTE]-(writer:Writer)
	OPTIONAL MATCH (movie)<-[:DIRECTED]-(director:Director)
	OPTIONAL MATCH (movie)<-[:PRODUCED]-(company:ProductionCompany)
	OPTIONAL MATCH (movie)-[:IN_GENRE]->(genre:Genre)
	OPTIONAL MATCH (movie)-[:IN_COUNTRY]->(country:Country)
	RETURN movie.external_id AS external_id,
		movie.title AS title,
		movie.original_title AS original_title,
		movie.description AS description,
		collect(DISTINCT actor.name) AS actors,
		collect(DISTINCT writer.name) AS writers,
		collect(DISTINCT director.name) AS directors,
		collect(DISTINCT company.name) AS production_companies,
		collect(DISTINCT genre.name) AS genres,
		collect(DISTINCT country.name) AS countries
`
