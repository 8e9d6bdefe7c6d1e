package sqlinline

// $1 is an optional bigint[] of row ids; null selects every row.

const QListCategoryMedia = `--sql 5a0ad9fd-73a7-4eab-8c95-5caf4e0aa4ea
select id, coalesce(image, ''), coalesce(seo_image, '')
from category
where $1::bigint[] is null or id = any($1::bigint[])
order by sort_order asc, id asc;
`

const QListProductMedia = `--sql 9a16a4f7-a82f-4cae-8092-ee235d509cfe
select id, coalesce(image, ''), coalesce(card_image, '')
from product
where $1::bigint[] is null or id = any($1::bigint[])
order by id asc;
`

// Gallery rows are filtered by owning product id so --ids means the same
// thing for every product kind.
const QListGalleryMedia = `--sql 8af16382-bc3f-4125-b6f2-548e6cb591de
select product_id, coalesce(image, '')
from goods_productimage
where $1::bigint[] is null or product_id = any($1::bigint[])
order by product_id asc, id asc;
`

const QFindProductPathBySlug = `--sql 2fe88f3f-de02-4032-b8a2-fcfa03469fcf
select coalesce(c.slug, ''), p.slug
from product p
left join category c on c.id = p.category_id
where p.slug = $1
limit 1;
`
