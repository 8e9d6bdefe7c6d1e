package sqlinline

const QEnsureVariantJobs = `--sql 37d05a39-e08d-4828-994c-4db82d35f528
create table if not exists media_variant_jobs (
    id uuid primary key,
    kind text not null,
    owner_id bigint not null default 0,
    name text not null,
    status text not null default 'QUEUED',
    attempts int not null default 0,
    error_message text not null default '',
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create index if not exists media_variant_jobs_status_idx on media_variant_jobs (status, created_at);
`

const QEnqueueVariantJob = `--sql 50f71a44-a1a2-4d75-bba2-fe1f9f5c9b2f
insert into media_variant_jobs (id, kind, owner_id, name, status)
values ($1::uuid, $2, $3, $4, 'QUEUED')
returning created_at, updated_at;
`

const QClaimVariantJob = `--sql 22436af3-9e62-4dce-8557-a906398b3111
with next_job as (
    select id
    from media_variant_jobs
    where status = 'QUEUED'
    order by created_at asc
    for update skip locked
    limit 1
)
update media_variant_jobs j
set status = 'RUNNING', attempts = j.attempts + 1, updated_at = now()
from next_job
where j.id = next_job.id
returning j.id, j.kind, j.owner_id, j.name, j.attempts, j.created_at, j.updated_at;
`

const QCompleteVariantJob = `--sql 1e4f7fb7-9d33-4014-94a5-c1d7c6a10ad2
update media_variant_jobs
set status = $2, error_message = $3, updated_at = now()
where id = $1::uuid;
`

// Jobs left RUNNING by a crashed worker go back to the queue.
const QRequeueStaleVariantJobs = `--sql cfec7697-7a28-4cc7-8ea6-676fca425316
update media_variant_jobs
set status = 'QUEUED', updated_at = now()
where status = 'RUNNING' and updated_at < now() - $1::interval;
`
